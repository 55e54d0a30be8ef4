// Package circuitbreaker guards calls to optional backing services such as Redis.
// Пакет circuitbreaker защищает вызовы необязательных внешних сервисов, например Redis.
//
// While the circuit is open calls fail fast with ErrOpen, letting callers
// degrade instead of waiting on a dead dependency.
// Пока цепь разомкнута, вызовы сразу завершаются ошибкой ErrOpen, и вызывающий
// код может деградировать, не дожидаясь недоступной зависимости.
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/andrewhigh08/weather-api/internal/pkg/apperror"
)

// ErrOpen is returned, wrapped in a SERVICE_UNAVAILABLE error, while calls are rejected.
// ErrOpen возвращается, обёрнутая в ошибку SERVICE_UNAVAILABLE, пока вызовы отклоняются.
var ErrOpen = errors.New("circuit breaker open")

// State represents the current state of the circuit breaker.
// State представляет текущее состояние circuit breaker.
type State int

const (
	StateClosed   State = iota // Calls pass through / Вызовы проходят
	StateOpen                  // Calls are rejected / Вызовы отклоняются
	StateHalfOpen              // Probe calls allowed / Разрешены пробные вызовы
)

// String returns the string representation of the state.
// String возвращает строковое представление состояния.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Config holds the configuration for a circuit breaker.
// Config содержит конфигурацию для circuit breaker.
type Config struct {
	// Name identifies the breaker in logs and metrics.
	// Name идентифицирует breaker в логах и метриках.
	Name string

	// MaxFailures is the number of consecutive failures that opens the circuit.
	// MaxFailures - количество подряд идущих сбоев, размыкающих цепь.
	MaxFailures int

	// Timeout is how long the circuit stays open before probing.
	// Timeout - сколько цепь остаётся разомкнутой до пробного вызова.
	Timeout time.Duration

	// MaxHalfOpenRequests is the number of probes allowed, and successes needed to close.
	// MaxHalfOpenRequests - количество разрешённых проб и успехов, нужных для замыкания.
	MaxHalfOpenRequests int

	// IsFailure classifies an error; nil uses IsTransient.
	// IsFailure классифицирует ошибку; nil означает IsTransient.
	IsFailure func(error) bool

	// OnStateChange is called asynchronously on every transition.
	// OnStateChange вызывается асинхронно при каждом переходе.
	OnStateChange func(name string, from, to State)

	// Now returns the current time; nil uses time.Now.
	// Now возвращает текущее время; nil означает time.Now.
	Now func() time.Time
}

// DefaultConfig returns a default circuit breaker configuration.
// DefaultConfig возвращает конфигурацию circuit breaker по умолчанию.
func DefaultConfig(name string) Config {
	return Config{
		Name:                name,
		MaxFailures:         5,
		Timeout:             30 * time.Second,
		MaxHalfOpenRequests: 1,
	}
}

// CircuitBreaker implements the circuit breaker pattern.
// CircuitBreaker реализует паттерн circuit breaker.
type CircuitBreaker struct {
	config Config

	mu       sync.Mutex
	state    State
	failures int
	probes   int
	passed   int
	openedAt time.Time
}

// New creates a new circuit breaker with the given configuration.
// New создаёт новый circuit breaker с заданной конфигурацией.
func New(config Config) *CircuitBreaker {
	defaults := DefaultConfig(config.Name)
	if config.MaxFailures <= 0 {
		config.MaxFailures = defaults.MaxFailures
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.MaxHalfOpenRequests <= 0 {
		config.MaxHalfOpenRequests = defaults.MaxHalfOpenRequests
	}
	if config.IsFailure == nil {
		config.IsFailure = IsTransient
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &CircuitBreaker{config: config}
}

// Name returns the configured breaker name.
// Name возвращает настроенное имя breaker.
func (cb *CircuitBreaker) Name() string {
	return cb.config.Name
}

// Execute runs fn unless the circuit rejects the call.
// Execute выполняет fn, если цепь не отклоняет вызов.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	_, err := ExecuteWithResult(ctx, cb, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}

// ExecuteWithResult runs fn and returns its value unless the circuit rejects the call.
// ExecuteWithResult выполняет fn и возвращает её значение, если цепь не отклоняет вызов.
func ExecuteWithResult[T any](ctx context.Context, cb *CircuitBreaker, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	if err := cb.acquire(); err != nil {
		return zero, err
	}

	result, err := fn(ctx)
	cb.record(err)

	return result, err
}

func (cb *CircuitBreaker) acquire() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateOpen && cb.config.Now().Sub(cb.openedAt) >= cb.config.Timeout {
		cb.transition(StateHalfOpen)
	}

	switch cb.state {
	case StateOpen:
		return apperror.ServiceUnavailable(cb.config.Name + " is temporarily unavailable").WithError(ErrOpen)
	case StateHalfOpen:
		if cb.probes >= cb.config.MaxHalfOpenRequests {
			return apperror.ServiceUnavailable(cb.config.Name + " is recovering").WithError(ErrOpen)
		}
		cb.probes++
	}

	return nil
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch {
	case err == nil:
		cb.onSuccess()
	case cb.config.IsFailure(err):
		cb.onFailure()
	}
}

func (cb *CircuitBreaker) onFailure() {
	switch cb.state {
	case StateClosed:
		cb.failures++
		if cb.failures >= cb.config.MaxFailures {
			cb.transition(StateOpen)
		}
	case StateHalfOpen:
		cb.transition(StateOpen)
	}
}

func (cb *CircuitBreaker) onSuccess() {
	switch cb.state {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.passed++
		if cb.passed >= cb.config.MaxHalfOpenRequests {
			cb.transition(StateClosed)
		}
	}
}

// transition must be called with mu held.
func (cb *CircuitBreaker) transition(to State) {
	from := cb.state
	if from == to {
		return
	}

	cb.state = to
	cb.failures = 0
	cb.probes = 0
	cb.passed = 0
	if to == StateOpen {
		cb.openedAt = cb.config.Now()
	}

	if cb.config.OnStateChange != nil {
		go cb.config.OnStateChange(cb.config.Name, from, to)
	}
}

// State returns the current state of the circuit breaker.
// State возвращает текущее состояние circuit breaker.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Failures returns the consecutive failure count of the closed state.
// Failures возвращает количество подряд идущих сбоев в замкнутом состоянии.
func (cb *CircuitBreaker) Failures() int {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.failures
}

// Reset forces the circuit back to closed.
// Reset принудительно замыкает цепь.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.transition(StateClosed)
	cb.failures = 0
}

// IsTransient reports whether err should count against the breaker.
// Internal and unavailability errors count, as does any non-AppError;
// request-level errors such as validation failures do not.
// IsTransient сообщает, должна ли err учитываться breaker.
// Учитываются внутренние ошибки, ошибки недоступности и любые не-AppError;
// ошибки уровня запроса, например валидации, не учитываются.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}

	appErr, ok := apperror.AsAppError(err)
	if !ok {
		return true
	}

	switch appErr.Code {
	case apperror.CodeInternal, apperror.CodeServiceUnavailable:
		return true
	default:
		return false
	}
}
