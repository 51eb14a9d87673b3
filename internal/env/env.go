package env

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/interactive-solutions/go-semaphore"
)

// Env resolves values from the process environment first and from a .env
// file second. Empty values fall back to the defaults given by the caller.
type Env struct {
	dotEnv map[string]string
}

// Load reads the dotenv files at paths. Missing files are skipped.
func Load(paths ...string) (*Env, error) {
	e := &Env{dotEnv: map[string]string{}}

	for _, path := range paths {
		values, err := godotenv.Read(path)
		if err != nil {
			if os.IsNotExist(errors.Cause(err)) {
				continue
			}

			return nil, errors.Wrapf(err, "Failed to read %s", path)
		}

		for k, v := range values {
			if _, ok := e.dotEnv[k]; !ok {
				e.dotEnv[k] = v
			}
		}
	}

	return e, nil
}

// get prefers a variable set in the environment, even an empty one, over the
// dotenv value.
func (e *Env) get(key string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}

	return e.dotEnv[key]
}

func (e *Env) Default(key, def string) string {
	if value := e.get(key); value != "" {
		return value
	}

	return def
}

func (e *Env) DefaultInt(key string, def int) int {
	value := e.get(key)
	if value == "" {
		return def
	}

	i, err := strconv.Atoi(value)
	if err != nil {
		return def
	}

	return i
}

// Config builds the client config from SEMAPHORE_API_KEY, SENDER_NAME and
// SEMAPHORE_API_BASE.
func (e *Env) Config() semaphore.Config {
	return semaphore.Config{
		APIKey:     e.Default("SEMAPHORE_API_KEY", ""),
		SenderName: e.Default("SENDER_NAME", semaphore.DefaultSenderName),
		APIBase:    e.Default("SEMAPHORE_API_BASE", semaphore.DefaultAPIBase),
	}
}

// LogLevel parses LOG_LEVEL, falling back to info.
func (e *Env) LogLevel() logrus.Level {
	level, err := logrus.ParseLevel(e.Default("LOG_LEVEL", "info"))
	if err != nil {
		return logrus.InfoLevel
	}

	return level
}
