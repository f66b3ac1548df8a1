// Grounded in the Snowflake usage pattern throughout
// marouanesouiri-dwaz's package (ParseSnowflake, map[Snowflake]T keys,
// JSON-tagged struct fields) — the type itself isn't defined in the
// retrieved file set, so it's authored here from that usage plus
// Discord's documented snowflake format (a uint64 transmitted as a
// JSON string to avoid precision loss in JS clients).
package discordtypes

import (
	"strconv"
	"time"
)

// discordEpoch is the first millisecond of 2015, Discord's snowflake epoch.
const discordEpoch int64 = 1420070400000

// Snowflake is a Discord unique ID. The wire format is a JSON string;
// Snowflake marshals/unmarshals accordingly while behaving as a plain
// uint64 everywhere else (map keys, comparisons, arithmetic).
type Snowflake uint64

// ParseSnowflake parses a decimal snowflake string.
func ParseSnowflake(s string) (Snowflake, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, err
	}
	return Snowflake(v), nil
}

// String renders the snowflake in Discord's decimal wire format.
func (s Snowflake) String() string {
	return strconv.FormatUint(uint64(s), 10)
}

// MarshalJSON encodes the snowflake as a JSON string.
func (s Snowflake) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON decodes a JSON string (or bare number, for leniency)
// into a snowflake.
func (s *Snowflake) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}
	v, err := strconv.ParseUint(str, 10, 64)
	if err != nil {
		return err
	}
	*s = Snowflake(v)
	return nil
}

// CreatedAt returns the timestamp encoded in the snowflake's leading 42 bits.
func (s Snowflake) CreatedAt() time.Time {
	ms := int64(s>>22) + discordEpoch
	return time.UnixMilli(ms).UTC()
}

// IsZero reports whether the snowflake was never set.
func (s Snowflake) IsZero() bool {
	return s == 0
}
