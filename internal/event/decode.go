package event

import "encoding/json"

// DecodePayload returns the payload as T. In-process events already carry the
// struct; payloads read back from the dead-letter file arrive as generic JSON
// and are converted through a JSON round trip.
func DecodePayload[T any](payload any) (T, error) {
	if v, ok := payload.(T); ok {
		return v, nil
	}
	var out T
	data, err := json.Marshal(payload)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(data, &out)
	return out, err
}
