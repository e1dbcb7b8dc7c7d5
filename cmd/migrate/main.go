package main

import (
	"errors"
	"flag"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/jhoicas/fulfillment-api/pkg/config"
	"github.com/jhoicas/fulfillment-api/pkg/logger"
)

// Runner de migraciones de esquema. Uso:
//
//	go run ./cmd/migrate -action up
//	go run ./cmd/migrate -action down -steps 1
//	go run ./cmd/migrate -action version
func main() {
	action := flag.String("action", "up", "acción: up, down o version")
	steps := flag.Int("steps", 0, "número de migraciones a revertir (para down)")
	path := flag.String("path", "internal/infrastructure/postgres/migrations", "directorio de migraciones")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"}).Component("migrate")

	m, err := migrate.New(fmt.Sprintf("file://%s", *path), cfg.DB.ConnectionString())
	if err != nil {
		log.Fatal().Err(err).Msg("crear instancia de migrate")
	}
	defer m.Close()

	switch *action {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("aplicar migraciones")
		}
		log.Info().Msg("migraciones aplicadas")

	case "down":
		if *steps > 0 {
			err = m.Steps(-*steps)
		} else {
			err = m.Down()
		}
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.Fatal().Err(err).Msg("revertir migraciones")
		}
		log.Info().Int("steps", *steps).Msg("migraciones revertidas")

	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatal().Err(err).Msg("consultar versión")
		}
		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("versión actual del esquema")

	default:
		log.Fatal().Str("action", *action).Msg("acción desconocida (use up, down o version)")
	}
}
