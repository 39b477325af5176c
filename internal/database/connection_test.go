package database

import (
	"testing"

	"github.com/somnambulistic-art/Netology-final-diplom/internal/config"
	"gorm.io/gorm/logger"
)

func TestDialector(t *testing.T) {
	tests := []struct {
		dbType string
		want   string
	}{
		{"mysql", "mysql"},
		{"mariadb", "mysql"},
		{"postgres", "postgres"},
		{"postgresql", "postgres"},
		{"sqlite", "sqlite"},
		{"sqlserver", "sqlserver"},
		{"mssql", "sqlserver"},
	}

	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			cfg := &config.Config{
				DBType:     tt.dbType,
				DBHost:     "localhost",
				DBPort:     "1234",
				DBDatabase: "market",
				DBUser:     "user",
				DBPassword: "secret",
			}
			d, err := Dialector(cfg)
			if err != nil {
				t.Fatalf("Dialector(%q) error: %v", tt.dbType, err)
			}
			if d.Name() != tt.want {
				t.Errorf("Dialector(%q).Name() = %q, want %q", tt.dbType, d.Name(), tt.want)
			}
		})
	}

	if _, err := Dialector(&config.Config{DBType: "oracle"}); err == nil {
		t.Error("expected an error for an unsupported database type")
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]logger.LogLevel{
		"silent": logger.Silent,
		"ERROR":  logger.Error,
		"info":   logger.Info,
		"warn":   logger.Warn,
		"":       logger.Warn,
		"bogus":  logger.Warn,
	}
	for in, want := range tests {
		if got := ParseLogLevel(in); got != want {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
