package quest

import (
	"encoding/json"
	"fmt"
	"strings"
)

// LaxBool accepts a JSON bool, 0/1, or one of the usual yes/no strings.
type LaxBool bool

func (b *LaxBool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}

	switch t := v.(type) {
	case nil:
		*b = false
		return nil
	case bool:
		*b = LaxBool(t)
		return nil
	case float64:
		switch t {
		case 0:
			*b = false
			return nil
		case 1:
			*b = true
			return nil
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "1", "on", "t", "true", "y", "yes":
			*b = true
			return nil
		case "0", "off", "f", "false", "n", "no":
			*b = false
			return nil
		}
	}
	return fmt.Errorf("generate_quest: %s is not a valid boolean", data)
}
