package procmaturity

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/nsip/procurement-maturity/internal/advisor"
	"github.com/nsip/procurement-maturity/internal/benchmark"
	"github.com/nsip/procurement-maturity/internal/catalog"
	"github.com/nsip/procurement-maturity/internal/recommend"
	"github.com/nsip/procurement-maturity/internal/report"
	"github.com/nsip/procurement-maturity/internal/store"
)

type ProcMaturityService struct {
	// embedded web server to handle assessment requests
	e *echo.Echo
	// the unique name of this service when running multiple instances
	serviceName string
	// the unique id of this service when running multiple instances
	serviceID string
	// the host address this service instance is running on
	serviceHost string
	// the port that this service instance is running on
	servicePort int
	// organization records
	store store.Store
	// questions, options and static recommendation content
	catalog *catalog.Catalog
	// industry reference scores
	benchmarks *benchmark.Table
	// free-text recommendation generator
	advisor advisor.Advisor

	selector *recommend.Selector
	reports  *report.Builder
	sessions *sessions
}

//
// create a new service instance
//
func New(options ...Option) (*ProcMaturityService, error) {

	srvc := ProcMaturityService{}

	if err := srvc.setOptions(options...); err != nil {
		return nil, err
	}

	srvc.selector = recommend.New(srvc.catalog)
	if n := srvc.selector.LogCheck(); n > 0 {
		log.Warnf("%d area/score combinations have no static recommendation", n)
	}
	srvc.reports = report.NewBuilder(srvc.catalog, srvc.benchmarks, srvc.selector, srvc.advisor)
	srvc.sessions = newSessions()

	srvc.e = echo.New()
	srvc.e.HideBanner = true
	srvc.e.Logger.SetLevel(log.INFO)
	// add pingable method to know we're up
	srvc.e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, "OK")
	})

	// catalog content
	srvc.e.GET("/themes", srvc.buildThemesHandler())
	srvc.e.GET("/themes/:theme/questions", srvc.buildQuestionsHandler())
	srvc.e.GET("/benchmarks", srvc.buildBenchmarksHandler())

	// whole submissions and organization results
	srvc.e.POST("/submissions", srvc.buildSubmissionHandler())
	srvc.e.GET("/organizations", srvc.buildOrganizationsHandler())
	srvc.e.GET("/organizations/:org/maturity", srvc.buildMaturityHandler())
	srvc.e.GET("/organizations/:org/export", srvc.buildExportHandler())

	// step by step assessments
	srvc.e.POST("/sessions", srvc.buildStartSessionHandler())
	srvc.e.GET("/sessions/:id", srvc.buildGetSessionHandler())
	srvc.e.POST("/sessions/:id/user", srvc.buildSetUserHandler())
	srvc.e.POST("/sessions/:id/themes", srvc.buildSelectThemesHandler())
	srvc.e.POST("/sessions/:id/areas", srvc.buildSelectAreasHandler())
	srvc.e.POST("/sessions/:id/answers", srvc.buildAnswerHandler())
	srvc.e.POST("/sessions/:id/submit", srvc.buildSubmitSessionHandler())
	srvc.e.POST("/sessions/:id/results", srvc.buildResultsHandler())
	srvc.e.POST("/sessions/:id/back", srvc.buildBackHandler())
	srvc.e.POST("/sessions/:id/home", srvc.buildHomeHandler())

	return &srvc, nil
}

//
// start the service running
//
func (s *ProcMaturityService) Start() {

	address := fmt.Sprintf("%s:%d", s.serviceHost, s.servicePort)
	go func(addr string) {
		if err := s.e.Start(addr); err != nil && err != http.ErrServerClosed {
			s.e.Logger.Info("error starting server: ", err, ", shutting down...")
			// attempt clean shutdown by raising sig int
			p, _ := os.FindProcess(os.Getpid())
			p.Signal(os.Interrupt)
		}
	}(address)

}

//
// shut the server down gracefully
//
func (s *ProcMaturityService) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.e.Shutdown(ctx); err != nil {
		fmt.Println("could not shut down server cleanly: ", err)
	}
	if err := s.store.Close(); err != nil {
		fmt.Println("could not close response store: ", err)
	}

}

func (s *ProcMaturityService) PrintConfig() {

	fmt.Println("\n\tProcurement Maturity Service Configuration")
	fmt.Println("\t------------------------------------------")
	fmt.Println()

	s.printID()
	s.printContentConfig()

}

func (s *ProcMaturityService) printID() {
	fmt.Println("\tservice name:\t\t", s.serviceName)
	fmt.Println("\tservice ID:\t\t", s.serviceID)
	fmt.Println("\tservice host:\t\t", s.serviceHost)
	fmt.Println("\tservice port:\t\t", s.servicePort)
}

func (s *ProcMaturityService) printContentConfig() {
	fmt.Println("\tresponse store:\t\t", storeKind(s.store))
	fmt.Println("\tthemes:\t\t\t", len(s.catalog.Themes))
	fmt.Println("\tbenchmark sources:\t", len(s.benchmarks.Sources))
	if o, ok := s.advisor.(*advisor.Ollama); ok {
		fmt.Println("\tadvisor model:\t\t", o.Model())
	} else {
		fmt.Println("\tadvisor:\t\t disabled")
	}
}

func storeKind(st store.Store) string {
	switch st.(type) {
	case *store.File:
		return "file"
	case *store.Redis:
		return "redis"
	}
	return fmt.Sprintf("%T", st)
}
