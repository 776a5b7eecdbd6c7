package procmaturity

import (
	"github.com/pkg/errors"

	"github.com/nsip/procurement-maturity/internal/advisor"
	"github.com/nsip/procurement-maturity/internal/benchmark"
	"github.com/nsip/procurement-maturity/internal/catalog"
	"github.com/nsip/procurement-maturity/internal/store"
	"github.com/nsip/procurement-maturity/internal/util"
)

type Option func(*ProcMaturityService) error

//
// apply all supplied options to the service
// returns any error encountered while applying the options
//
func (srvc *ProcMaturityService) setOptions(options ...Option) error {
	for _, opt := range options {
		if err := opt(srvc); err != nil {
			return err
		}
	}
	return srvc.setDefaults()
}

//
// fill in whatever the options left unset; only the store has no
// sensible default.
//
func (srvc *ProcMaturityService) setDefaults() error {
	if srvc.serviceName == "" {
		srvc.serviceName = util.GenerateName()
	}
	if srvc.serviceID == "" {
		srvc.serviceID = util.GenerateID()
	}
	if srvc.serviceHost == "" {
		srvc.serviceHost = "localhost"
	}
	if srvc.servicePort == 0 {
		port, err := util.AvailablePort()
		if err != nil {
			return err
		}
		srvc.servicePort = port
	}
	if srvc.store == nil {
		return errors.New("no response store configured")
	}
	if srvc.catalog == nil {
		cat, err := catalog.Load(catalog.Embedded())
		if err != nil {
			return err
		}
		srvc.catalog = cat
	}
	if srvc.benchmarks == nil {
		bench, err := benchmark.Default()
		if err != nil {
			return err
		}
		srvc.benchmarks = bench
	}
	if srvc.advisor == nil {
		srvc.advisor = advisor.Disabled{}
	}
	return nil
}

//
// a name for this service instance;
// if empty a hashid name is generated.
//
func Name(name string) Option {
	return func(s *ProcMaturityService) error {
		s.serviceName = name
		return nil
	}
}

//
// an id for this service instance;
// if empty a nuid is generated.
//
func ID(id string) Option {
	return func(s *ProcMaturityService) error {
		s.serviceID = id
		return nil
	}
}

//
// host address the service binds to
//
func Host(hostName string) Option {
	return func(s *ProcMaturityService) error {
		s.serviceHost = hostName
		return nil
	}
}

//
// port to run the service on;
// 0 picks an available port.
//
func Port(port int) Option {
	return func(s *ProcMaturityService) error {
		if port < 0 || port > 65535 {
			return errors.Errorf("invalid port %d", port)
		}
		s.servicePort = port
		return nil
	}
}

//
// where organization records are kept
//
func Store(st store.Store) Option {
	return func(s *ProcMaturityService) error {
		if st == nil {
			return errors.New("store must not be nil")
		}
		s.store = st
		return nil
	}
}

//
// question catalog; the embedded catalog is used when not set
//
func Catalog(cat *catalog.Catalog) Option {
	return func(s *ProcMaturityService) error {
		if cat == nil {
			return errors.New("catalog must not be nil")
		}
		s.catalog = cat
		return nil
	}
}

//
// industry benchmark table; the embedded table is used when not set
//
func Benchmarks(t *benchmark.Table) Option {
	return func(s *ProcMaturityService) error {
		if t == nil {
			return errors.New("benchmark table must not be nil")
		}
		s.benchmarks = t
		return nil
	}
}

//
// generator of free-text recommendations;
// generation is disabled when not set
//
func Advisor(a advisor.Advisor) Option {
	return func(s *ProcMaturityService) error {
		s.advisor = a
		return nil
	}
}
