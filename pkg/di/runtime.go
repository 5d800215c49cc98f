// Package di wires process-lifetime singletons, currently the credential
// store, through samber/do/v2's provide/invoke style.
package di

import (
	"github.com/samber/do/v2"
)

// Injector is the handle commands use to resolve dependencies. It is an
// alias so callers never need to import samber/do/v2 directly.
type Injector = do.Injector

// Module registers one or more providers on injector.
type Module func(Injector) error

// Runtime owns the root injector for one CLI invocation.
type Runtime struct {
	injector Injector
}

// NewRuntime creates an empty runtime. Call Apply to register modules
// before resolving anything.
func NewRuntime() *Runtime {
	return &Runtime{injector: do.New()}
}

// Injector exposes the root injector for command constructors that need
// to call do.Invoke directly.
func (r *Runtime) Injector() Injector {
	return r.injector
}

// Apply registers each module against the runtime's injector, stopping at
// the first error.
func (r *Runtime) Apply(modules ...Module) error {
	for _, module := range modules {
		if err := module(r.injector); err != nil {
			return err
		}
	}

	return nil
}

// Shutdown releases any providers registered with a shutdown hook (e.g.
// pooled connections). Safe to call even if nothing was ever resolved.
func (r *Runtime) Shutdown() error {
	return r.injector.Shutdown()
}

// Invoke resolves T from injector, lazily constructing it and any of its
// dependencies on first use.
func Invoke[T any](injector Injector) (T, error) {
	return do.Invoke[T](injector)
}

// ProvideValue registers a pre-built value of type T, useful for CLI flag
// values (profile name, config path override) that flow into later
// providers.
func ProvideValue[T any](injector Injector, value T) {
	do.ProvideValue(injector, value)
}

// Provide registers a constructor for T.
func Provide[T any](injector Injector, provider func(Injector) (T, error)) {
	do.Provide(injector, func(i do.Injector) (T, error) {
		return provider(i)
	})
}
