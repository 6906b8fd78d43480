// seed_master carga los datos maestros compartidos (monedas, puertos y conceptos de cobro)
// a partir de un catálogo YAML y, opcionalmente, del CSV oficial de UN/LOCODE.
//
// Uso: go run ./cmd/seed_master [-catalog cmd/seed_master/catalog.yaml] [-locodes "2024-1 UNLOCODE CodeListPart1.csv"] [-out seed.sql]
// Con -out escribe un script SQL en lugar de conectarse a la base.
// Es idempotente: los puertos y conceptos existentes se omiten y las tasas se actualizan.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Freight-api/internal/domain"
	"github.com/jhoicas/Freight-api/internal/domain/entity"
	"github.com/jhoicas/Freight-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Freight-api/pkg/config"
	"github.com/jhoicas/Freight-api/pkg/logger"
)

func main() {
	catalogPath := flag.String("catalog", "cmd/seed_master/catalog.yaml", "catálogo YAML")
	locodePath := flag.String("locodes", "", "CSV de UN/LOCODE (opcional)")
	utf8 := flag.Bool("utf8", false, "el CSV ya viene en UTF-8")
	out := flag.String("out", "", "ruta del script SQL a generar")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.Log.Level, Service: cfg.App.Name + "/seed_master"})

	f, err := os.Open(*catalogPath)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir catálogo")
	}
	cat, err := parseCatalog(f)
	f.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("catálogo inválido")
	}

	if *locodePath != "" {
		lf, err := os.Open(*locodePath)
		if err != nil {
			log.Fatal().Err(err).Msg("abrir CSV UN/LOCODE")
		}
		ports, err := readLocodes(lf, !*utf8)
		lf.Close()
		if err != nil {
			log.Fatal().Err(err).Msg("leer CSV UN/LOCODE")
		}
		cat.Ports = append(cat.Ports, ports...)
	}

	if *out != "" {
		w, err := os.Create(*out)
		if err != nil {
			log.Fatal().Err(err).Msg("crear script SQL")
		}
		if err := writeSQL(w, cat, func() string { return uuid.New().String() }); err != nil {
			log.Fatal().Err(err).Msg("escribir script SQL")
		}
		if err := w.Close(); err != nil {
			log.Fatal().Err(err).Msg("cerrar script SQL")
		}
		log.Info().Str("path", *out).Int("ports", len(cat.Ports)).Msg("script generado")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()
	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("migración del esquema")
	}

	now := time.Now().UTC()
	currencies := postgres.NewCurrencyRepository(pool)
	for _, c := range cat.Currencies {
		rate, _ := c.rate()
		if err := currencies.Upsert(ctx, &entity.Currency{
			Code: strings.ToUpper(c.Code), Name: c.Name, Symbol: c.Symbol, RateToBase: rate, UpdatedAt: now,
		}); err != nil {
			log.Fatal().Err(err).Str("code", c.Code).Msg("moneda")
		}
	}

	ports := postgres.NewPortRepository(pool)
	created, skipped := 0, 0
	for _, p := range cat.Ports {
		code := strings.ToUpper(p.Code)
		err := ports.Create(ctx, &entity.Port{
			Code: code, Name: p.Name, Country: code[:2], Kind: p.Kind, Affiliation: p.Affiliation, CreatedAt: now,
		})
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			skipped++
		case err != nil:
			log.Fatal().Err(err).Str("code", code).Msg("puerto")
		default:
			created++
		}
	}
	log.Info().Int("created", created).Int("skipped", skipped).Msg("puertos")

	components := postgres.NewPriceComponentRepository(pool)
	for _, pc := range cat.Components {
		currency := pc.Currency
		if currency == "" {
			currency = "USD"
		}
		err := components.Create(ctx, &entity.PriceComponent{
			ID: uuid.New().String(), Affiliation: pc.Affiliation, Code: pc.Code, Name: pc.Name,
			Basis: pc.Basis, Taxable: pc.Taxable, DefaultCurrency: currency, Active: true,
			CreatedAt: now, UpdatedAt: now,
		})
		if err != nil && !errors.Is(err, domain.ErrDuplicate) {
			log.Fatal().Err(err).Str("code", pc.Code).Msg("concepto de cobro")
		}
	}

	log.Info().
		Int("currencies", len(cat.Currencies)).
		Int("price_components", len(cat.Components)).
		Msg("datos maestros cargados")
}
