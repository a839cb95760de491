package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Astemirdum/bookshelf-service/bookshelf/config"
	"github.com/Astemirdum/bookshelf-service/bookshelf/internal/handler"
	"github.com/Astemirdum/bookshelf-service/bookshelf/internal/notify"
	"github.com/Astemirdum/bookshelf-service/bookshelf/internal/repository"
	"github.com/Astemirdum/bookshelf-service/bookshelf/internal/server"
	"github.com/Astemirdum/bookshelf-service/bookshelf/internal/service"
	"github.com/Astemirdum/bookshelf-service/pkg/kafka"
	"github.com/Astemirdum/bookshelf-service/pkg/logger"
	md "github.com/Astemirdum/bookshelf-service/pkg/middleware"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Run serves the bookshelf API until ctx is cancelled or the process
// receives SIGINT/SIGTERM.
func Run(ctx context.Context, cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "bookshelf")
	defer log.Sync() //nolint:errcheck

	var closers []func() error

	notifier := notify.Nop()
	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			return errors.Wrap(err, "kafka.NewProducer")
		}
		kn := notify.NewKafka(producer, cfg.Kafka.Topic, log)
		closers = append(closers, kn.Close)
		notifier = kn
		log.Info("book events enabled", zap.Strings("brokers", cfg.Kafka.Addrs), zap.String("topic", cfg.Kafka.Topic))
	}

	limits := handler.RateLimit{
		BaseRPS: rate.Limit(cfg.RateLimit.BaseRPS),
		APIRPS:  rate.Limit(cfg.RateLimit.APIRPS),
	}
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			log.Warn("redis unreachable, rate limit fails open", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		cancel()
		limits.BaseStore = md.NewRedisStore(rdb, "rl:base", limits.BaseRPS, int(cfg.RateLimit.BaseRPS), log)
		limits.APIStore = md.NewRedisStore(rdb, "rl:api", limits.APIRPS, int(cfg.RateLimit.APIRPS), log)
		closers = append(closers, rdb.Close)
	}

	repo := repository.NewRepository(log)
	svc := service.NewService(repo, notifier, log)
	h := handler.New(svc, log, limits)
	srv := server.NewServer(cfg.Server, h.NewRouter())

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server start ON: ",
			zap.String("addr",
				net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
		return srv.Run()
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Debug("Graceful shutdown", zap.Error(context.Cause(gctx)))

		closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		return srv.Stop(closeCtx)
	})

	err := g.Wait()
	if err != nil {
		log.Error("server", zap.Error(err))
	}
	for _, closeFn := range closers {
		if cerr := closeFn(); cerr != nil {
			log.Warn("close", zap.Error(cerr))
		}
	}
	log.Info("Graceful shutdown finished", zap.Int("books", repo.Len()))
	return err
}
