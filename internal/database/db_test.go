package database

import (
	"testing"

	"catering-backoffice/config"
)

func TestDialectorSelectsDriver(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.DBConfig
		want string
	}{
		{"default postgres", config.DBConfig{Host: "db", Port: "5432", User: "u", Name: "catering"}, "postgres"},
		{"explicit postgres dsn", config.DBConfig{Driver: "postgres", DSN: "postgres://u:p@db:5432/catering"}, "postgres"},
		{"mysql from fields", config.DBConfig{Driver: "mysql", Host: "db", Port: "3306", User: "u", Password: "p", Name: "catering"}, "mysql"},
		{"mysql dsn", config.DBConfig{Driver: "mysql", DSN: "u:p@tcp(db:3306)/catering?parseTime=true"}, "mysql"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d, err := Dialector(tc.cfg)
			if err != nil {
				t.Fatalf("dialector: %v", err)
			}
			if d.Name() != tc.want {
				t.Fatalf("driver = %s, want %s", d.Name(), tc.want)
			}
		})
	}
}

func TestDialectorRejects(t *testing.T) {
	if _, err := Dialector(config.DBConfig{Driver: "sqlite"}); err == nil {
		t.Error("expected unsupported driver error")
	}
	if _, err := Dialector(config.DBConfig{Driver: "mysql", DSN: "not a dsn"}); err == nil {
		t.Error("expected invalid mysql DSN error")
	}
}
