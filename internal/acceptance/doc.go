// Package acceptance holds the Gherkin scenarios for qgen's user-facing
// behavior. Run them with: go test -tags cucumber ./internal/acceptance/...
package acceptance
