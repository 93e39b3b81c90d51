package settings

import "github.com/m04kA/SMC-SchedulingService/pkg/dbmetrics"

// DBExecutor интерфейс для работы с БД (*sql.DB или *dbmetrics.DB)
type DBExecutor = dbmetrics.DBExecutor
