// Command operator-token creates an operator on first use and prints a
// session token for it, usable as the session cookie or a bearer token.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	config "github.com/maheshrc27/postgate/configs"
	"github.com/maheshrc27/postgate/internal/repository"
	"github.com/maheshrc27/postgate/internal/service"
	"github.com/maheshrc27/postgate/pkg/logging"
	"github.com/maheshrc27/postgate/pkg/utils"
	"go.uber.org/zap"
)

func main() {
	email := flag.String("email", "", "operator email")
	name := flag.String("name", "", "operator display name, used when creating")
	ttl := flag.Duration("ttl", 30*24*time.Hour, "token lifetime")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.LoadConfig()
	if err := logging.InitLogger(cfg.Logging); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logging.Sync()
	log := logging.GetLogger()

	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid configuration", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := repository.Migrate(ctx, db); err != nil {
		log.Fatal("failed to apply schema", zap.Error(err))
	}

	operators := service.NewOperatorService(repository.NewOperatorRepository(db))
	op, err := operators.EnsureOperator(ctx, *email, *name)
	if err != nil {
		log.Fatal("failed to resolve operator", zap.Error(err))
	}

	token, err := utils.GenerateToken(cfg.SecretKey, op.ID, *ttl)
	if err != nil {
		log.Fatal("failed to sign token", zap.Error(err))
	}
	fmt.Println(token)
}
