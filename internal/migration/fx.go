package migration

import (
	"github.com/katapod/transcribe/internal/config"
	customerdomain "github.com/katapod/transcribe/internal/customer/domain"
	transcriptiondomain "github.com/katapod/transcribe/internal/transcription/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg *config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			return RunMigrations(sqlDB)
		}

		// Non-Postgres targets (local sqlite, mysql) take the schema
		// straight from the models.
		if err := conn.AutoMigrate(&customerdomain.Mapping{}); err != nil {
			return err
		}
		for _, table := range []string{
			transcriptiondomain.TableLive,
			transcriptiondomain.TableLog,
			transcriptiondomain.TableBin,
		} {
			if err := conn.Table(table).AutoMigrate(&transcriptiondomain.Record{}); err != nil {
				return err
			}
		}
		return nil
	}),
)
