package servicedef

import (
	"encoding/json"
	"fmt"
	"time"
)

// Date is a point in time as the provider serializes it: milliseconds since the epoch.
type Date struct {
	time.Time
}

// NewDate truncates t to millisecond precision, which is all that survives a round trip.
func NewDate(t time.Time) Date {
	return Date{Time: time.UnixMilli(t.UnixMilli())}
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.UnixMilli())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var millis int64
	if err := json.Unmarshal(data, &millis); err != nil {
		return fmt.Errorf("date must be a number of milliseconds: %w", err)
	}
	d.Time = time.UnixMilli(millis)
	return nil
}

// Equal compares two dates at millisecond precision.
func (d Date) Equal(other Date) bool {
	return d.UnixMilli() == other.UnixMilli()
}

func (d Date) String() string {
	return d.UTC().Format(time.RFC3339Nano)
}

// DateBody is the request body of the responseEntity operation.
type DateBody struct {
	Date Date `json:"date"`
}

// User is the result type of the cseResponse operation.
type User struct {
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Index int    `json:"index"`
}

func (u User) String() string {
	return fmt.Sprintf("User [name=%s, age=%d, index=%d]", u.Name, u.Age, u.Index)
}

// ErrorData is the body of an error response from the provider.
type ErrorData struct {
	Message string `json:"message"`
}
