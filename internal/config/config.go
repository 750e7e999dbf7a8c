package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ark-network/launchsite/internal/core/application"
	"github.com/ark-network/launchsite/internal/core/domain"
	"github.com/ark-network/launchsite/internal/core/ports"
	"github.com/ark-network/launchsite/internal/infrastructure/db"
	watermilldb "github.com/ark-network/launchsite/internal/infrastructure/db/watermill"
	fixedenv "github.com/ark-network/launchsite/internal/infrastructure/environment/fixed"
	randomenv "github.com/ark-network/launchsite/internal/infrastructure/environment/random"
	inmemorylivestore "github.com/ark-network/launchsite/internal/infrastructure/live-store/inmemory"
	redislivestore "github.com/ark-network/launchsite/internal/infrastructure/live-store/redis"
	timescheduler "github.com/ark-network/launchsite/internal/infrastructure/scheduler/gocron"
	"github.com/btcsuite/btcd/btcutil"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var (
	supportedEventDbs = supportedType{
		"badger": {},
	}
	supportedDbs = supportedType{
		"badger":   {},
		"sqlite":   {},
		"postgres": {},
	}
	supportedLiveStores = supportedType{
		"inmemory": {},
		"redis":    {},
	}
	supportedEnvironments = supportedType{
		"fixed":  {},
		"random": {},
	}
	supportedSchedulers = supportedType{
		"gocron": {},
	}
)

type Config struct {
	Datadir  string
	Port     uint32
	NoTLS    bool
	LogLevel int

	SiteName  string
	SiteOwner string

	DbType                string
	EventDbType           string
	DbDir                 string
	EventDbDir            string
	DbUrl                 string
	LiveStoreType         string
	RedisUrl              string
	RedisNumOfRetries     int
	EnvironmentType       string
	FixedEnvironment      domain.Environment
	SchedulerType         string
	SessionInterval       int64
	OtelCollectorEndpoint string

	BuildInfo application.BuildInfo `json:"-"`

	repo        ports.RepoManager
	liveStore   ports.LiveStore
	eventBus    ports.EventBus
	environment ports.EnvironmentProvider
	scheduler   ports.SchedulerService
	site        *domain.LaunchSite
	svc         application.Service
}

func (c *Config) String() string {
	json, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Sprintf("error while marshalling config JSON: %s", err)
	}
	return string(json)
}

var (
	Datadir               = "DATADIR"
	Port                  = "PORT"
	NoTLS                 = "NO_TLS"
	LogLevel              = "LOG_LEVEL"
	SiteName              = "SITE_NAME"
	SiteOwner             = "SITE_OWNER"
	EventDbType           = "EVENT_DB_TYPE"
	DbType                = "DB_TYPE"
	DbUrl                 = "DB_URL"
	LiveStoreType         = "LIVE_STORE_TYPE"
	RedisUrl              = "REDIS_URL"
	RedisNumOfRetries     = "REDIS_NUM_OF_RETRIES"
	EnvironmentType       = "ENVIRONMENT_TYPE"
	FixedWeather          = "FIXED_WEATHER"
	FixedAltitude         = "FIXED_ALTITUDE"
	FixedFuelPrice        = "FIXED_FUEL_PRICE"
	FixedPayloadValue     = "FIXED_PAYLOAD_VALUE"
	SchedulerType         = "SCHEDULER_TYPE"
	SessionInterval       = "SESSION_INTERVAL"
	OtelCollectorEndpoint = "OTEL_COLLECTOR_ENDPOINT"

	defaultDatadir           = btcutil.AppDataDir("launchd", false)
	DefaultPort              = 7070
	defaultNoTLS             = true
	defaultLogLevel          = 4
	defaultSiteName          = "launch-site"
	defaultEventDbType       = "badger"
	defaultDbType            = "sqlite"
	defaultLiveStoreType     = "inmemory"
	defaultRedisNumOfRetries = 3
	defaultEnvironmentType   = "fixed"
	defaultSchedulerType     = "gocron"
	defaultSessionInterval   = 0
)

func LoadConfig() (*Config, error) {
	viper.SetEnvPrefix("LAUNCH")
	viper.AutomaticEnv()

	viper.SetDefault(Datadir, defaultDatadir)
	viper.SetDefault(Port, DefaultPort)
	viper.SetDefault(NoTLS, defaultNoTLS)
	viper.SetDefault(LogLevel, defaultLogLevel)
	viper.SetDefault(SiteName, defaultSiteName)
	viper.SetDefault(EventDbType, defaultEventDbType)
	viper.SetDefault(DbType, defaultDbType)
	viper.SetDefault(LiveStoreType, defaultLiveStoreType)
	viper.SetDefault(RedisNumOfRetries, defaultRedisNumOfRetries)
	viper.SetDefault(EnvironmentType, defaultEnvironmentType)
	viper.SetDefault(FixedWeather, fixedenv.DefaultWeather)
	viper.SetDefault(FixedAltitude, fixedenv.DefaultAltitude)
	viper.SetDefault(FixedFuelPrice, fixedenv.DefaultFuelPrice)
	viper.SetDefault(FixedPayloadValue, fixedenv.DefaultPayloadValue)
	viper.SetDefault(SchedulerType, defaultSchedulerType)
	viper.SetDefault(SessionInterval, defaultSessionInterval)

	if err := initDatadir(); err != nil {
		return nil, fmt.Errorf("error while creating datadir: %s", err)
	}

	dbPath := filepath.Join(viper.GetString(Datadir), "db")

	return &Config{
		Datadir:           viper.GetString(Datadir),
		Port:              viper.GetUint32(Port),
		NoTLS:             viper.GetBool(NoTLS),
		LogLevel:          viper.GetInt(LogLevel),
		SiteName:          viper.GetString(SiteName),
		SiteOwner:         viper.GetString(SiteOwner),
		EventDbType:       viper.GetString(EventDbType),
		DbType:            viper.GetString(DbType),
		DbDir:             dbPath,
		EventDbDir:        dbPath,
		DbUrl:             viper.GetString(DbUrl),
		LiveStoreType:     viper.GetString(LiveStoreType),
		RedisUrl:          viper.GetString(RedisUrl),
		RedisNumOfRetries: viper.GetInt(RedisNumOfRetries),
		EnvironmentType:   viper.GetString(EnvironmentType),
		FixedEnvironment: domain.Environment{
			Weather:      viper.GetUint32(FixedWeather),
			Altitude:     viper.GetUint32(FixedAltitude),
			FuelPrice:    viper.GetUint32(FixedFuelPrice),
			PayloadValue: viper.GetUint32(FixedPayloadValue),
		},
		SchedulerType:         viper.GetString(SchedulerType),
		SessionInterval:       viper.GetInt64(SessionInterval),
		OtelCollectorEndpoint: viper.GetString(OtelCollectorEndpoint),
	}, nil
}

func initDatadir() error {
	datadir := viper.GetString(Datadir)
	return makeDirectoryIfNotExists(datadir)
}

func makeDirectoryIfNotExists(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return os.MkdirAll(path, os.ModeDir|0755)
	}
	return nil
}

func (c *Config) Validate() error {
	if !supportedEventDbs.supports(c.EventDbType) {
		return fmt.Errorf("event db type not supported, please select one of: %s", supportedEventDbs)
	}
	if !supportedDbs.supports(c.DbType) {
		return fmt.Errorf("db type not supported, please select one of: %s", supportedDbs)
	}
	if !supportedLiveStores.supports(c.LiveStoreType) {
		return fmt.Errorf("live store type not supported, please select one of: %s", supportedLiveStores)
	}
	if !supportedEnvironments.supports(c.EnvironmentType) {
		return fmt.Errorf("environment type not supported, please select one of: %s", supportedEnvironments)
	}
	if !supportedSchedulers.supports(c.SchedulerType) {
		return fmt.Errorf("scheduler type not supported, please select one of: %s", supportedSchedulers)
	}
	if c.SessionInterval < 0 {
		return fmt.Errorf("invalid session interval, must not be negative")
	}
	if c.DbType == "postgres" && c.DbUrl == "" {
		return fmt.Errorf("missing db url for postgres db")
	}
	if c.LiveStoreType == "redis" && c.RedisUrl == "" {
		return fmt.Errorf("missing redis url for redis live store")
	}

	if err := c.launchSite(); err != nil {
		return err
	}
	if err := c.environmentService(); err != nil {
		return err
	}
	if err := c.schedulerService(); err != nil {
		return err
	}
	if err := c.repoManager(); err != nil {
		return err
	}
	if err := c.liveStoreService(); err != nil {
		return err
	}
	c.eventBus = watermilldb.NewEventBus()
	return nil
}

func (c *Config) AppService() (application.Service, error) {
	if c.svc == nil {
		if err := c.appService(); err != nil {
			return nil, err
		}
	}
	return c.svc, nil
}

func (c *Config) launchSite() error {
	if c.SiteOwner == "" {
		return fmt.Errorf("missing site owner")
	}
	owner, err := domain.ParseActorId(c.SiteOwner)
	if err != nil {
		return fmt.Errorf("invalid site owner: %s", err)
	}

	site, err := domain.NewLaunchSite(c.SiteName, owner)
	if err != nil {
		return err
	}

	c.site = site
	return nil
}

func (c *Config) repoManager() error {
	var eventStoreConfig []interface{}
	var dataStoreConfig []interface{}
	logger := log.New()

	switch c.EventDbType {
	case "badger":
		eventStoreConfig = []interface{}{c.EventDbDir, logger}
	default:
		return fmt.Errorf("unknown event db type")
	}

	switch c.DbType {
	case "badger":
		dataStoreConfig = []interface{}{c.DbDir, logger}
	case "sqlite":
		dataStoreConfig = []interface{}{c.DbDir}
	case "postgres":
		dataStoreConfig = []interface{}{c.DbUrl}
	default:
		return fmt.Errorf("unknown db type")
	}

	svc, err := db.NewService(db.ServiceConfig{
		EventStoreType:   c.EventDbType,
		DataStoreType:    c.DbType,
		EventStoreConfig: eventStoreConfig,
		DataStoreConfig:  dataStoreConfig,
	})
	if err != nil {
		return err
	}

	c.repo = svc
	return nil
}

func (c *Config) liveStoreService() error {
	var liveStoreSvc ports.LiveStore
	var err error
	switch c.LiveStoreType {
	case "inmemory":
		liveStoreSvc = inmemorylivestore.NewLiveStore()
	case "redis":
		liveStoreSvc, err = redislivestore.NewLiveStore(c.RedisUrl, c.RedisNumOfRetries)
	default:
		err = fmt.Errorf("unknown liveStore type")
	}

	if err != nil {
		return err
	}

	c.liveStore = liveStoreSvc
	return nil
}

func (c *Config) environmentService() error {
	var svc ports.EnvironmentProvider
	var err error
	switch c.EnvironmentType {
	case "fixed":
		svc = fixedenv.NewService(c.FixedEnvironment)
	case "random":
		svc, err = randomenv.NewService(randomenv.DefaultBounds)
	default:
		err = fmt.Errorf("unknown environment type")
	}
	if err != nil {
		return err
	}

	c.environment = svc
	return nil
}

func (c *Config) schedulerService() error {
	var svc ports.SchedulerService
	var err error
	switch c.SchedulerType {
	case "gocron":
		svc = timescheduler.NewScheduler()
	default:
		err = fmt.Errorf("unknown scheduler type")
	}
	if err != nil {
		return err
	}

	c.scheduler = svc
	return nil
}

func (c *Config) appService() error {
	if c.site == nil {
		return fmt.Errorf("config not validated")
	}

	svc, err := application.NewService(
		c.BuildInfo, c.SessionInterval, c.site,
		c.repo, c.liveStore, c.eventBus, c.environment, c.scheduler,
	)
	if err != nil {
		return err
	}

	c.svc = svc
	return nil
}

type supportedType map[string]struct{}

func (t supportedType) String() string {
	types := make([]string, 0, len(t))
	for tt := range t {
		types = append(types, tt)
	}
	return strings.Join(types, " | ")
}

func (t supportedType) supports(typeStr string) bool {
	_, ok := t[typeStr]
	return ok
}
