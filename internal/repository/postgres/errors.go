package postgres

// Код ошибки PostgreSQL для нарушения уникального ограничения
const pgUniqueViolation = "23505"
