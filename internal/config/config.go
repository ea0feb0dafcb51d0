package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Scheduler    SchedulerConfig
	Data         DataConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	BcryptCost            int
	// Operators is the seeded console user list, parsed from
	// AUTH_OPERATORS as "email:password:role" entries joined by commas.
	Operators []OperatorSeed
}

// OperatorSeed is one configured console login.
type OperatorSeed struct {
	Email    string
	Password string
	Role     string
}

// SchedulerConfig carries the assignment and detection policy knobs.
type SchedulerConfig struct {
	WindowHours            int
	MinBreakMinutes        int
	DepartureWindowMinutes int
	ArrivalWindowMinutes   int
	IdealTeamSize          int
	MinTeamSize            int
	CriticalMinSize        int
	TeamLabels             []string
	AllowUndersized        bool
	LightTeamSize          int
	MediumTeamSize         int
	HeavyTeamSize          int
	// RandomSeed fixes the formation shuffle; 0 means seed from the clock.
	RandomSeed int64
}

// DataConfig points at the roster and flight-log inputs.
type DataConfig struct {
	EmployeesCSV string
	FlightsCSV   string
	// BaseDate anchors HH:MM flight times to a calendar day.
	BaseDate string
	// CityHeaviness overrides heaviness per inbound city, parsed from
	// DATA_CITY_HEAVINESS as "CITY=Heavy" entries joined by commas.
	CityHeaviness map[string]string
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	operators, err := parseOperators(os.Getenv("AUTH_OPERATORS"))
	if err != nil {
		return nil, fmt.Errorf("invalid AUTH_OPERATORS: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ramp-scheduler"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
			Operators:             operators,
		},
		Scheduler: SchedulerConfig{
			WindowHours:            getEnvAsInt("SCHED_WINDOW_HOURS", 4),
			MinBreakMinutes:        getEnvAsInt("SCHED_MIN_BREAK_MINUTES", 15),
			DepartureWindowMinutes: getEnvAsInt("SCHED_DEPARTURE_WINDOW_MINUTES", 30),
			ArrivalWindowMinutes:   getEnvAsInt("SCHED_ARRIVAL_WINDOW_MINUTES", 5),
			IdealTeamSize:          getEnvAsInt("SCHED_IDEAL_TEAM_SIZE", 4),
			MinTeamSize:            getEnvAsInt("SCHED_MIN_TEAM_SIZE", 3),
			CriticalMinSize:        getEnvAsInt("SCHED_CRITICAL_MIN_SIZE", 2),
			TeamLabels:             getEnvAsList("SCHED_TEAM_LABELS", []string{"Alpha", "Bravo", "Charlie", "Delta"}),
			AllowUndersized:        getEnvAsBool("SCHED_ALLOW_UNDERSIZED", true),
			LightTeamSize:          getEnvAsInt("SCHED_TEAM_SIZE_LIGHT", 3),
			MediumTeamSize:         getEnvAsInt("SCHED_TEAM_SIZE_MEDIUM", 4),
			HeavyTeamSize:          getEnvAsInt("SCHED_TEAM_SIZE_HEAVY", 5),
			RandomSeed:             int64(getEnvAsInt("SCHED_RANDOM_SEED", 0)),
		},
		Data: DataConfig{
			EmployeesCSV:  getEnv("DATA_EMPLOYEES_CSV", "data/employees.csv"),
			FlightsCSV:    getEnv("DATA_FLIGHTS_CSV", "data/flights.csv"),
			BaseDate:      getEnv("DATA_BASE_DATE", "2025-09-13"),
			CityHeaviness: parseCityHeaviness(os.Getenv("DATA_CITY_HEAVINESS")),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", ""),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Window returns the rolling assignment window.
func (s SchedulerConfig) Window() time.Duration {
	return time.Duration(s.WindowHours) * time.Hour
}

// MinBreak returns the minimum rest between flights.
func (s SchedulerConfig) MinBreak() time.Duration {
	return time.Duration(s.MinBreakMinutes) * time.Minute
}

// DepartureWindow returns the look-ahead for shift-end detection.
func (s SchedulerConfig) DepartureWindow() time.Duration {
	return time.Duration(s.DepartureWindowMinutes) * time.Minute
}

// ArrivalWindow returns the look-back for shift-start detection.
func (s SchedulerConfig) ArrivalWindow() time.Duration {
	return time.Duration(s.ArrivalWindowMinutes) * time.Minute
}

func parseOperators(raw string) ([]OperatorSeed, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var seeds []OperatorSeed
	for _, entry := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(entry), ":", 3)
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" {
			return nil, fmt.Errorf("malformed operator entry %q", entry)
		}
		seeds = append(seeds, OperatorSeed{
			Email:    parts[0],
			Password: parts[1],
			Role:     strings.ToUpper(parts[2]),
		})
	}
	return seeds, nil
}

func parseCityHeaviness(raw string) map[string]string {
	out := make(map[string]string)
	if strings.TrimSpace(raw) == "" {
		return out
	}
	for _, entry := range strings.Split(raw, ",") {
		city, heaviness, found := strings.Cut(strings.TrimSpace(entry), "=")
		if !found || city == "" || heaviness == "" {
			continue
		}
		out[strings.ToUpper(city)] = heaviness
	}
	return out
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
