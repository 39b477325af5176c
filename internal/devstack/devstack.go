// Package devstack starts the database, Redis and a mail catcher in containers
// for local development and integration tests.
package devstack

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/joho/godotenv"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	_ "github.com/go-sql-driver/mysql"
)

// Options selects the images and credentials of the stack.
type Options struct {
	DBType     string // postgres or mariadb
	DBImage    string
	Database   string
	User       string
	Password   string
	RedisImage string
	// MailImage is skipped when empty
	MailImage string
}

// DefaultOptions returns a Postgres stack with Redis and MailHog.
func DefaultOptions() Options {
	return Options{
		DBType:     "postgres",
		Database:   "marketplace",
		User:       "marketplace",
		Password:   "marketplace",
		RedisImage: "redis:7-alpine",
		MailImage:  "mailhog/mailhog:v1.0.1",
	}
}

// Stack holds the running containers.
type Stack struct {
	Network *testcontainers.DockerNetwork
	DB      testcontainers.Container
	Redis   testcontainers.Container
	Mail    testcontainers.Container

	env map[string]string
	log *zap.Logger
}

// Env returns the configuration variables that point the server at the stack.
func (s *Stack) Env() map[string]string {
	out := make(map[string]string, len(s.env))
	for k, v := range s.env {
		out[k] = v
	}
	return out
}

// WriteEnv stores Env in a dotenv file for the server's ENV_FILE.
func (s *Stack) WriteEnv(path string) error {
	return godotenv.Write(s.env, path)
}

// Terminate stops every container and removes the network.
func (s *Stack) Terminate(ctx context.Context) {
	containers := []struct {
		name string
		c    testcontainers.Container
	}{{"mail", s.Mail}, {"redis", s.Redis}, {"database", s.DB}}

	for _, it := range containers {
		if it.c == nil {
			continue
		}
		if err := it.c.Terminate(ctx); err != nil {
			s.log.Warn("failed to terminate container", zap.String("container", it.name), zap.Error(err))
		}
	}
	if s.Network != nil {
		if err := s.Network.Remove(ctx); err != nil {
			s.log.Warn("failed to remove network", zap.Error(err))
		}
	}
}

// Start brings up the stack; on error everything started so far is terminated.
func Start(ctx context.Context, opts Options, log *zap.Logger) (*Stack, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Stack{env: make(map[string]string), log: log}

	nw, err := network.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create network: %w", err)
	}
	s.Network = nw

	if err := s.startDatabase(ctx, opts); err != nil {
		s.Terminate(ctx)
		return nil, err
	}
	if opts.RedisImage != "" {
		if err := s.startRedis(ctx, opts.RedisImage); err != nil {
			s.Terminate(ctx)
			return nil, err
		}
	}
	if opts.MailImage != "" {
		if err := s.startMail(ctx, opts.MailImage); err != nil {
			s.Terminate(ctx)
			return nil, err
		}
	}

	log.Info("devstack started", zap.Any("env", s.env))
	return s, nil
}

func (s *Stack) startDatabase(ctx context.Context, opts Options) error {
	var (
		port     nat.Port
		image    string
		env      map[string]string
		strategy wait.Strategy
	)

	switch opts.DBType {
	case "postgres", "postgresql":
		port = "5432/tcp"
		image = orDefault(opts.DBImage, "postgres:16-alpine")
		env = map[string]string{
			"POSTGRES_DB":       opts.Database,
			"POSTGRES_USER":     opts.User,
			"POSTGRES_PASSWORD": opts.Password,
		}
		// the entrypoint restarts the server once after init
		strategy = wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second)

	case "mariadb", "mysql":
		port = "3306/tcp"
		image = orDefault(opts.DBImage, "mariadb:11")
		env = map[string]string{
			"MYSQL_ROOT_PASSWORD": opts.Password,
			"MYSQL_DATABASE":      opts.Database,
			"MYSQL_USER":          opts.User,
			"MYSQL_PASSWORD":      opts.Password,
		}
		strategy = wait.ForSQL(port, "mysql", func(host string, p nat.Port) string {
			return fmt.Sprintf("%s:%s@tcp(%s)/%s", opts.User, opts.Password, net.JoinHostPort(host, p.Port()), opts.Database)
		}).WithStartupTimeout(90 * time.Second)

	default:
		return fmt.Errorf("unsupported database type: %s", opts.DBType)
	}

	c, err := s.run(ctx, "database", testcontainers.ContainerRequest{
		Image:        image,
		ExposedPorts: []string{string(port)},
		Env:          env,
		WaitingFor:   strategy,
	})
	if err != nil {
		return err
	}
	s.DB = c

	host, mapped, err := endpoint(ctx, c, port)
	if err != nil {
		return err
	}
	s.env["DB_TYPE"] = opts.DBType
	s.env["DB_HOST"] = host
	s.env["DB_PORT"] = mapped
	s.env["DB_DATABASE"] = opts.Database
	s.env["DB_USER"] = opts.User
	s.env["DB_PASSWORD"] = opts.Password
	return nil
}

func (s *Stack) startRedis(ctx context.Context, image string) error {
	port := nat.Port("6379/tcp")
	c, err := s.run(ctx, "redis", testcontainers.ContainerRequest{
		Image:        image,
		ExposedPorts: []string{string(port)},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	})
	if err != nil {
		return err
	}
	s.Redis = c

	host, mapped, err := endpoint(ctx, c, port)
	if err != nil {
		return err
	}
	s.env["REDIS_URL"] = fmt.Sprintf("redis://%s/0", net.JoinHostPort(host, mapped))
	return nil
}

func (s *Stack) startMail(ctx context.Context, image string) error {
	smtpPort := nat.Port("1025/tcp")
	webPort := nat.Port("8025/tcp")
	c, err := s.run(ctx, "mail", testcontainers.ContainerRequest{
		Image:        image,
		ExposedPorts: []string{string(smtpPort), string(webPort)},
		WaitingFor:   wait.ForListeningPort(smtpPort).WithStartupTimeout(30 * time.Second),
	})
	if err != nil {
		return err
	}
	s.Mail = c

	host, mapped, err := endpoint(ctx, c, smtpPort)
	if err != nil {
		return err
	}
	s.env["SMTP_HOST"] = host
	s.env["SMTP_PORT"] = mapped
	s.env["SMTP_FROM"] = "shop@example.com"

	if _, web, err := endpoint(ctx, c, webPort); err == nil {
		s.log.Info("mail catcher ui", zap.String("url", fmt.Sprintf("http://%s", net.JoinHostPort(host, web))))
	}
	return nil
}

func (s *Stack) run(ctx context.Context, name string, req testcontainers.ContainerRequest) (testcontainers.Container, error) {
	req.Networks = []string{s.Network.Name}
	req.NetworkAliases = map[string][]string{s.Network.Name: {name}}

	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		// GenericContainer can return a created but unstarted container
		_ = testcontainers.TerminateContainer(c)
		return nil, fmt.Errorf("failed to start %s: %w", name, err)
	}
	s.log.Info("container started", zap.String("container", name), zap.String("image", req.Image))
	return c, nil
}

func endpoint(ctx context.Context, c testcontainers.Container, port nat.Port) (string, string, error) {
	host, err := c.Host(ctx)
	if err != nil {
		return "", "", fmt.Errorf("container host: %w", err)
	}
	mapped, err := c.MappedPort(ctx, port)
	if err != nil {
		return "", "", fmt.Errorf("mapped port %s: %w", port, err)
	}
	return host, mapped.Port(), nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
