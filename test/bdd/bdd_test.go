package bdd

import (
	"testing"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/floorsense-go/test/bdd/steps"
)

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"features"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}

func InitializeScenario(sc *godog.ScenarioContext) {
	// NOTE: InitializeStoreScenario registered FIRST: it owns the scenario
	// reset and the layout/stock/snapshot steps every feature shares.
	steps.InitializeStoreScenario(sc)
	steps.InitializeIngestScenario(sc)
	steps.InitializeReplenishmentScenario(sc)
	steps.InitializeCartScenario(sc)
	steps.InitializeReceivingScenario(sc)
}
