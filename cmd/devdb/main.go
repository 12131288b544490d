// devdb runs a disposable MariaDB container for local development of the
// script store. It seeds the shared sample user so listings show the sample
// scripts the way production does.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/yjkim/hue/internal/config"
)

const mariadbPort = "3306/tcp"

func main() {
	var showHelp bool
	flag.BoolVar(&showHelp, "h", false, "show help")
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to the .env file")
	flag.Parse()

	usage := `
Run a local MariaDB container for the script store, using the environment
variables from the .env file.

Usage:

devdb [-h] [-f ENV_FILE_PATH]

ENV_FILE_PATH: path to the .env file

example
  devdb -f /path/to/something/.env
`
	if showHelp {
		fmt.Println(usage)
		return
	}

	if envFilename != "" {
		log.Printf("Loading environment variables from %s\n", envFilename)
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load environment variables: %v\n", err)
		}
	} else {
		log.Printf("No environment file specified, using current environment variables\n")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v\n", err)
	}

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "mariadb:11",
		ExposedPorts: []string{mariadbPort},
		Env: map[string]string{
			"MARIADB_ROOT_PASSWORD": cfg.DBPassword,
			"MARIADB_DATABASE":      cfg.DBDatabase,
			"MARIADB_USER":          cfg.DBUser,
			"MARIADB_PASSWORD":      cfg.DBPassword,
		},
		WaitingFor: wait.ForListeningPort(nat.Port(mariadbPort)).WithStartupTimeout(2 * time.Minute),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		log.Fatalf("Failed to start MariaDB container: %v\n", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		log.Fatalf("Failed to resolve container host: %v\n", err)
	}
	port, err := container.MappedPort(ctx, nat.Port(mariadbPort))
	if err != nil {
		log.Fatalf("Failed to resolve mapped port: %v\n", err)
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s", cfg.DBUser, cfg.DBPassword, host, port.Port(), cfg.DBDatabase)
	if err := waitForDB(dsn); err != nil {
		log.Fatalf("MariaDB never became ready: %v\n", err)
	}

	if err := seedSampleUser(dsn, cfg.SampleUserID); err != nil {
		log.Fatalf("Failed to seed sample user: %v\n", err)
	}

	log.Printf("MariaDB ready at %s:%s (database %s)\n", host, port.Port(), cfg.DBDatabase)
	log.Printf("export DB_HOST=%s DB_PORT=%s\n", host, port.Port())

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs

	log.Println("Terminating MariaDB container")
	if err := container.Terminate(ctx); err != nil {
		log.Printf("Failed to terminate container: %v\n", err)
	}
}

// waitForDB pings until the server accepts connections. The listening port
// opens before MariaDB finishes its bootstrap, so the wait strategy alone is
// not enough.
func waitForDB(dsn string) error {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	var lastErr error
	for i := 0; i < 30; i++ {
		if lastErr = db.Ping(); lastErr == nil {
			return nil
		}
		time.Sleep(2 * time.Second)
	}
	return lastErr
}

func seedSampleUser(dsn string, sampleUserID uint64) error {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED PRIMARY KEY,
		username VARCHAR(150) NOT NULL UNIQUE,
		is_superuser BOOLEAN NOT NULL DEFAULT FALSE
	)`)
	if err != nil {
		return err
	}

	_, err = db.Exec(
		"INSERT IGNORE INTO users (id, username, is_superuser) VALUES (?, 'sample', FALSE)",
		sampleUserID,
	)
	return err
}
