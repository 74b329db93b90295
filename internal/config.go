package internal

import (
	"time"

	"github.com/go-playground/validator/v10"

	"retrobell/errors"
)

var validate = validator.New()

// Config is the phone's environment. Defaults reproduce the original
// hardware timings; only PHONE_NUMBER has no sensible default.
type Config struct {
	PhoneNumber int `env:"PHONE_NUMBER,required=true" validate:"gte=0,lte=999"`

	ListenPort     int    `env:"LISTEN_PORT,default=49152"`
	MulticastGroup string `env:"MULTICAST_GROUP,default=239.77.7.1:49152" validate:"hostname_port"`

	BadgerFilepath string `env:"BADGER_FILEPATH,required=true"`
	LogLevel       string `env:"LOG_LEVEL,default=INFO"`
	LimitCalls     *int   `env:"LIMIT_CALLS"`
	DebugPort      int    `env:"DEBUG_PORT,default=0"`

	DirectoryCapacity int `env:"DIRECTORY_CAPACITY,default=10" validate:"gt=0"`
	EventBufferSize   int `env:"EVENT_BUFFER_SIZE,default=32" validate:"gt=0"`
	MaxDigits         int `env:"MAX_DIGITS,default=3" validate:"gt=0"`

	DiscoveryInterval time.Duration `env:"DISCOVERY_INTERVAL,default=10s"`
	HealthInterval    time.Duration `env:"HEALTH_INTERVAL,default=30s"`
	RestartInterval   time.Duration `env:"RESTART_INTERVAL,default=200ms"`

	HookDebounce      time.Duration `env:"HOOK_DEBOUNCE,default=50ms"`
	PulseDebounce     time.Duration `env:"PULSE_DEBOUNCE,default=10ms"`
	DialSafetyTimeout time.Duration `env:"DIAL_SAFETY_TIMEOUT,default=3s"`
	DialTimeout       time.Duration `env:"DIAL_TIMEOUT,default=3s"`
	AnswerTimeout     time.Duration `env:"ANSWER_TIMEOUT,default=45s"`
	PollInterval      time.Duration `env:"POLL_INTERVAL,default=5ms"`

	// ConsoleInput swaps the GPIO lines for a stdin command harness,
	// the host equivalent of the hardware's serial test mode.
	ConsoleInput bool `env:"CONSOLE_INPUT,default=true"`
}

func (c Config) Validate() error {
	if c.PhoneNumber < 0 {
		return errors.ErrNumberNotConfigured
	}
	return validate.Struct(c)
}
