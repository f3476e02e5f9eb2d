package contextkeys

type contextKey string

// DBContextKey - ключ, под которым *gorm.DB (пул или транзакция) лежит в контексте
const DBContextKey = contextKey("db")

// AdminContextKey - ключ для загруженного *models.Admin в gin.Context
const AdminContextKey = contextKey("admin")
