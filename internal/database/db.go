package database

import (
	"log"

	"github.com/Ceacontabil/acai-system/internal/config"
	"github.com/Ceacontabil/acai-system/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Não foi possível conectar ao banco: %v", err)
	}

	if err := AutoMigrate(DB); err != nil {
		log.Fatalf("Erro no AutoMigrate: %v", err)
	}

	log.Println("Conexão com o banco OK. Migration concluída.")
}

// AutoMigrate cria/atualiza o schema. Exportado para os testes
// migrarem o banco em memória com o mesmo conjunto de modelos.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Pote{},
		&models.AcaiProduct{},
		&models.Sale{},
		&models.SalePote{},
		&models.Expense{},
	)
}
