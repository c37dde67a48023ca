package prompt

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

// Serialize encodes the accepted values in format.
func Serialize(format OutputFormat, selected []string) ([]byte, error) {
	if selected == nil {
		selected = []string{}
	}
	switch format {
	case OutputFormatFormURLEncoded:
		values := url.Values{}
		for _, value := range selected {
			values.Add("selected[]", value)
		}
		return []byte(values.Encode() + "\n"), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		for idx, value := range selected {
			fmt.Fprintf(&b, "selected[%d]=%s\n", idx, value)
		}
		return []byte(b.String()), nil
	case OutputFormatJSON, "":
		raw, err := json.Marshal(map[string][]string{"selected": selected})
		if err != nil {
			return nil, err
		}
		return append(raw, '\n'), nil
	default:
		return nil, fmt.Errorf("prompt: unknown output format %q", format)
	}
}
