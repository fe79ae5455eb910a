package mint

import "encoding/json"

// Mapper transforms raw JSON bytes into a typed result.
type Mapper[T any] func([]byte) (T, error)

// Identity returns the raw bytes unchanged.
func Identity(data []byte) ([]byte, error) { return data, nil }

// Unmarshal builds a mapper for values and slices (e.g., []DeveloperBalance).
func Unmarshal[T any]() Mapper[T] {
	return func(data []byte) (T, error) {
		var out T
		err := json.Unmarshal(data, &out)
		return out, err
	}
}

// UnmarshalPtr builds a mapper for single objects returned as pointers.
func UnmarshalPtr[T any]() Mapper[*T] {
	return func(data []byte) (*T, error) {
		var out T
		if err := json.Unmarshal(data, &out); err != nil {
			return nil, err
		}
		return &out, nil
	}
}

var (
	ParseRatePlan          = UnmarshalPtr[RatePlan]()
	ParseDeveloperBalances = Unmarshal[[]DeveloperBalance]()
	ParsePayment           = UnmarshalPtr[Payment]()
)
