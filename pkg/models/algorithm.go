package models

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// Algorithm selects the candidate block builder the mined blocks were compared
// against.
type Algorithm int

const (
	OnBlockArrival Algorithm = iota
	GetBlockTemplate
)

var algorithms = [...]struct {
	wire  string
	label string
}{
	OnBlockArrival:   {wire: "OURS", label: "onBlockArrival"},
	GetBlockTemplate: {wire: "BITCOIND", label: "getBlockTemplate"},
}

func ParseAlgorithm(s string) (Algorithm, error) {
	for a, v := range algorithms {
		if v.wire == s {
			return Algorithm(a), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
}

// String returns the value used in routes and payloads.
func (a Algorithm) String() string {
	if a < 0 || int(a) >= len(algorithms) {
		return fmt.Sprintf("Algorithm(%d)", int(a))
	}
	return algorithms[a].wire
}

// Label is the human readable name shown in the view.
func (a Algorithm) Label() string {
	if a < 0 || int(a) >= len(algorithms) {
		return a.String()
	}
	return algorithms[a].label
}

func (a Algorithm) MarshalJSON() ([]byte, error) {
	if a < 0 || int(a) >= len(algorithms) {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAlgorithm, int(a))
	}
	return json.Marshal(a.String())
}

func (a *Algorithm) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("algorithm must be a string: %w", err)
	}
	parsed, err := ParseAlgorithm(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
