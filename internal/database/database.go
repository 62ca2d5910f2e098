// Package database implement connection to database service and initialize ORM.
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	// pgx registers the database/sql driver used by gorm's postgres dialector
	_ "github.com/jackc/pgx/v5/stdlib"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/Adham-Aroubite/hr-back/internal/config"
	"github.com/Adham-Aroubite/hr-back/internal/model"
)

const (
	busyOpenConnections = 40
	busyWaitCount       = 1000
)

// DBinstanceStruct is a struct that holds the GORM DB instance and related information.
type DBinstanceStruct struct {
	*gorm.DB
	// Config
	Config *DBConfig
	// cached raw DB and mutex for lazy-init
	sqlDB *sql.DB
	mu    sync.RWMutex
}

// DBConfig holds the configuration parameters for connecting to a database.
type DBConfig struct {
	Host      string
	Port      string
	User      string
	Password  string
	DBName    string
	Constr    string
	UseConstr bool
}

// NewDBConfig converts the loaded configuration into connection parameters
func NewDBConfig(c config.DatabaseConfig) *DBConfig {
	return &DBConfig{
		Host:      c.Host,
		Port:      c.Port,
		User:      c.User,
		Password:  c.Password,
		DBName:    c.Name,
		Constr:    c.ConnString,
		UseConstr: c.UseConnString,
	}
}

func (d *DBConfig) getDsn() (string, error) {
	if d.UseConstr {
		if d.Constr == "" {
			return "", errors.New("DB_CONNECTION_STR is empty")
		}
		return d.Constr, nil
	}
	if d.Host == "" || d.Port == "" || d.User == "" || d.Password == "" || d.DBName == "" {
		return "", errors.New("Database configuration is incomplete")
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", d.User, d.Password, d.Host, d.Port, d.DBName), nil
}

// Open connects to the database without touching its schema
func Open(config *DBConfig) (*DBinstanceStruct, error) {
	connStr, err := config.getDsn()
	if err != nil {
		return nil, err
	}

	gdb, err := gorm.Open(postgres.Open(connStr), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if gin.IsDebugging() {
		gdb = gdb.Debug()
	}

	return &DBinstanceStruct{
		DB:     gdb,
		Config: config,
	}, nil
}

// NewDBInstance creates a new DBinstanceStruct with the given configuration.
// It connects, installs the uuid extension and migrates every model.
func NewDBInstance(config *DBConfig) (*DBinstanceStruct, error) {
	newDb, err := Open(config)
	if err != nil {
		return nil, err
	}

	if err := newDb.installExtension(); err != nil {
		return nil, fmt.Errorf("failed to install extension: %w", err)
	}
	if err := newDb.Migrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return newDb, nil
}

// GetMainDB opens the application database and creates the bootstrap company when one is configured
func GetMainDB(cfg config.Config) (*DBinstanceStruct, error) {
	db, err := NewDBInstance(NewDBConfig(cfg.Database))
	if err != nil {
		return nil, err
	}

	if err := db.bootstrapCompany(cfg.Bootstrap); err != nil {
		return nil, err
	}
	return db, nil
}

// Raw returns the underlying *sql.DB, caching it after the first successful retrieval.
// It is safe for concurrent use.
func (d *DBinstanceStruct) Raw() (*sql.DB, error) {
	if d == nil {
		return nil, fmt.Errorf("DBinstanceStruct is nil")
	}

	d.mu.RLock()
	if d.sqlDB != nil {
		raw := d.sqlDB
		d.mu.RUnlock()
		return raw, nil
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sqlDB != nil {
		return d.sqlDB, nil
	}
	if d.DB == nil {
		return nil, fmt.Errorf("gorm DB is nil")
	}
	raw, err := d.DB.DB()
	if err != nil {
		return nil, err
	}
	d.sqlDB = raw
	return raw, nil
}

// CreateCompany inserts an active company with the given registration code
func (d *DBinstanceStruct) CreateCompany(name string, code string) (model.Company, error) {
	company := model.Company{
		RegistrationCode:    code,
		IsActive:            true,
		EditableCompanyInfo: model.EditableCompanyInfo{Name: name},
	}
	if err := d.Create(&company).Error; err != nil {
		return model.Company{}, err
	}
	return company, nil
}

func (d *DBinstanceStruct) bootstrapCompany(seed config.CompanySeed) error {
	if seed.Code == "" {
		log.Println("Bootstrap company not set, skipping company creation")
		return nil
	}

	var count int64
	if err := d.Model(&model.Company{}).Where("registration_code = ?", seed.Code).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if _, err := d.CreateCompany(seed.Name, seed.Code); err != nil {
		return fmt.Errorf("failed to create bootstrap company: %w", err)
	}
	log.Printf("Bootstrap company %q created", seed.Name)
	return nil
}

// Migrate database
func (d *DBinstanceStruct) Migrate() error {
	return d.AutoMigrate(model.MigrateAble...)
}

// Health pings the database and reports connection pool statistics.
// status is "up" or "down".
func (d *DBinstanceStruct) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	raw, err := d.Raw()
	if err == nil {
		err = raw.PingContext(ctx)
	}
	if err != nil {
		log.Printf("database ping failed: %v", err)
		return map[string]string{
			"status": "down",
			"error":  fmt.Sprintf("database unreachable: %v", err),
		}
	}

	pool := raw.Stats()
	stats := map[string]string{
		"status":           "up",
		"open_connections": strconv.Itoa(pool.OpenConnections),
		"in_use":           strconv.Itoa(pool.InUse),
		"idle":             strconv.Itoa(pool.Idle),
		"wait_count":       strconv.FormatInt(pool.WaitCount, 10),
		"wait_duration":    pool.WaitDuration.String(),
	}
	switch {
	case pool.WaitCount > busyWaitCount:
		stats["message"] = "Connections are frequently waited on"
	case pool.OpenConnections > busyOpenConnections:
		stats["message"] = "Connection pool is under heavy load"
	default:
		stats["message"] = "OK"
	}
	return stats
}

// Close closes the database connection.
func (d *DBinstanceStruct) Close() error {
	log.Printf("Disconnected from database: %s", d.Config.DBName)
	oriDB, err := d.Raw()
	if err != nil {
		return err
	}
	return oriDB.Close()
}

func (d *DBinstanceStruct) installExtension() error {
	err := d.WithContext(context.Background()).Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error
	if err != nil {
		return err
	}
	log.Println("uuid-ossp extension installed or already exists")
	return nil
}

// DropAll removes every table in the public schema
func (d *DBinstanceStruct) DropAll() error {
	return d.Exec(`DO $$ DECLARE r RECORD;
BEGIN
	FOR r IN (SELECT tablename FROM pg_tables WHERE schemaname = 'public') LOOP
		EXECUTE 'DROP TABLE IF EXISTS ' || quote_ident(r.tablename) || ' CASCADE';
	END LOOP;
END $$;`).Error
}
