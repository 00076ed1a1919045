package money

// Пакет money содержит целочисленную арифметику денежных сумм.
// Все суммы хранятся в минорных единицах валюты (пайсы для INR),
// поэтому округление возникает только при применении ставок.

// DivRound делит num на den с банковским округлением (к четному).
// den должен быть положительным.
func DivRound(num, den int64) int64 {
	neg := num < 0
	if neg {
		num = -num
	}

	q := num / den
	r := num % den

	// Сравниваем удвоенный остаток с делителем, чтобы не трогать
	// плавающую точку: 2r > den — округляем вверх, 2r == den — к четному.
	switch {
	case 2*r > den:
		q++
	case 2*r == den && q%2 == 1:
		q++
	}

	if neg {
		return -q
	}
	return q
}

// ApplyRate применяет ставку в базисных пунктах к сумме в минорных
// единицах: 10000 бп = 100%.
func ApplyRate(amount int64, rateBp int32) int64 {
	return DivRound(amount*int64(rateBp), 10000)
}
