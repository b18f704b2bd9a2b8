package config

import (
	"fmt"
	"log"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"royal-dine/models"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func mysqlConfig(user, pass, host, port, dbName string) *mysqldriver.Config {
	mc := mysqldriver.NewConfig()
	mc.User = user
	mc.Passwd = pass
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(host, port)
	mc.DBName = dbName
	mc.ParseTime = true
	mc.Loc = time.Local
	mc.Params = map[string]string{"charset": "utf8mb4"}
	return mc
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	pass, _ := u.User.Password()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	mc := mysqlConfig(u.User.Username(), pass, u.Hostname(), port, dbName)
	for key, values := range u.Query() {
		if len(values) == 0 {
			continue
		}
		switch key {
		case "parseTime", "loc":
			// always parseTime=true, loc=Local
		default:
			mc.Params[key] = values[0]
		}
	}
	return mc.FormatDSN(), nil
}

// MySQLDSN resolves MYSQL_URL, then DATABASE_URL, then the DB_* parts.
func (c Config) MySQLDSN() (string, error) {
	raw := strings.TrimSpace(c.MySQLURL)
	if raw == "" {
		raw = strings.TrimSpace(c.DatabaseURL)
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	port := c.DBPort
	if port == "" {
		port = "3306"
	}
	return mysqlConfig(c.DBUser, c.DBPass, c.DBHost, port, c.DBName).FormatDSN(), nil
}

// PostgresDSN returns DATABASE_URL as is, or a key/value DSN built from DB_*.
func (c Config) PostgresDSN() string {
	if raw := strings.TrimSpace(c.DatabaseURL); raw != "" {
		return raw
	}
	port := c.DBPort
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		c.DBHost, c.DBUser, c.DBPass, c.DBName, port)
}

func (c Config) dialector() (gorm.Dialector, error) {
	switch strings.ToLower(strings.TrimSpace(c.DBDriver)) {
	case "", DriverMySQL:
		dsn, err := c.MySQLDSN()
		if err != nil {
			return nil, err
		}
		return mysql.Open(dsn), nil
	case DriverPostgres, "postgresql":
		return postgres.Open(c.PostgresDSN()), nil
	case DriverSQLite, "sqlite3":
		return sqlite.Open(c.SQLitePath), nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
}

func gormLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func newGormLogger(level string) logger.Interface {
	return logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogLevel(level),
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
}

// ConnectDatabase opens the configured database and applies migrations.
func ConnectDatabase(c Config) (*gorm.DB, error) {
	dialector, err := c.dialector()
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: newGormLogger(c.DBLogLevel)})
	if err != nil {
		return nil, err
	}

	if db.Dialector.Name() == DriverSQLite {
		// sqlite allows a single writer; one connection keeps transactions
		// from tripping over SQLITE_BUSY.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// OpenSQLite is ConnectDatabase for a sqlite file, used by tools and tests.
func OpenSQLite(path string) (*gorm.DB, error) {
	return ConnectDatabase(Config{DBDriver: DriverSQLite, SQLitePath: path, DBLogLevel: "silent"})
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.BookingSequence{},
		&models.Booking{},
		&models.BookingEvent{},
		&models.Feedback{},
	)
}

// CloseDatabase releases the underlying connection pool.
func CloseDatabase(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
