package mocks

// Regenerate with `go generate ./internal/mocks` after changing a port.
// mockgen runs from the module root so the recorded source paths stay stable.

//go:generate sh -c "cd ../.. && go run go.uber.org/mock/mockgen@v0.5.0 -source=internal/port/agent/agent.go -destination=internal/mocks/agent.go -package=mocks"
//go:generate sh -c "cd ../.. && go run go.uber.org/mock/mockgen@v0.5.0 -source=internal/port/assignment/assignment.go -destination=internal/mocks/assignment.go -package=mocks"
//go:generate sh -c "cd ../.. && go run go.uber.org/mock/mockgen@v0.5.0 -source=internal/port/eventbus/eventbus.go -destination=internal/mocks/eventbus.go -package=mocks"
//go:generate sh -c "cd ../.. && go run go.uber.org/mock/mockgen@v0.5.0 -source=internal/port/notifier/agent.go -destination=internal/mocks/notifier.go -package=mocks"
