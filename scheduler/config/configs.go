package config

// ServiceConfigs the map of available configurations
var ServiceConfigs = map[string]string{
	"default":        defaultConfig,
	"local.memory":   localMemory,
	"local.postgres": localPostgres,
}

// defaultConfig the configuration values used for unset sections of a specific configuration
const defaultConfig = `{
  "Store": {"Type": "memory"},
  "Remote": {"Type": "http", "Timeout": "30s", "HttpTries": 3},
  "Scheduler": {"Type": "polling", "PoolSize": 50},
  "Admin": {"Type": "http", "Addr": "localhost:9091"}
}`

// localMemory keeps everything in process, for trying things out against contactsim
const localMemory = `{
  "Store": {"Type": "memory"},
  "Scheduler": {
    "Type": "polling",
    "PoolSize": 10,
    "JobSchedulerInterval": "2s",
    "JobCheckThreshold": "5s",
    "ContactCheckThreshold": "5s"
  }
}`

// localPostgres expects a database created with createdb dispatch
const localPostgres = `
Store:
  Type: postgres
  DSN: postgres://localhost/dispatch?sslmode=disable
  MaxOpenConns: 20
  ConnectTries: 5
  Migrate: true
Remote:
  Type: http
  Timeout: 10s
  HttpTries: 3
  RateLimit: 50
`
