package search

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/leozw/domainhub/internal/core"
	"github.com/leozw/domainhub/internal/registrar"
)

// normalize translates a registrar's own answer into the shared vocabulary.
func normalize(name string, a *registrar.Availability) core.DomainResult {
	if a == nil {
		return core.DomainResult{DomainName: name, Available: core.AvailableUnknown, Message: "no result returned"}
	}

	out := core.DomainResult{
		DomainName: a.Domain,
		Available:  availability(a.Available),
		Message:    a.Message,
	}
	if out.DomainName == "" {
		out.DomainName = name
	}
	if a.Premium != nil {
		out.Premium = yesNo(*a.Premium)
	}
	if a.Price != "" {
		price := a.Price
		if a.PriceMicros {
			price = fromMicros(price)
		}
		out.PriceList = []core.Price{{Years: 1, Price: price, Currency: a.Currency}}
	}
	return out
}

func availability(v any) core.AvailabilityState {
	switch t := v.(type) {
	case bool:
		return core.AvailabilityState(yesNo(t))
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "yes", "true", "available":
			return core.AvailableYes
		case "no", "false", "taken", "unavailable":
			return core.AvailableNo
		}
	}
	return core.AvailableUnknown
}

func yesNo(b bool) string {
	if b {
		return string(core.AvailableYes)
	}
	return string(core.AvailableNo)
}

// fromMicros renders millionths of a unit as a two-decimal amount. Values
// that are not integers are returned as given.
func fromMicros(s string) string {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return s
	}
	return fmt.Sprintf("%d.%02d", v/1_000_000, (v%1_000_000)/10_000)
}

func unsupported(name string, reg core.Registrar) core.DomainResult {
	return core.DomainResult{
		DomainName: name,
		Available:  core.AvailableUnknown,
		Message:    fmt.Sprintf("search not supported for %s", reg),
	}
}

func failed(name string, err error) core.DomainResult {
	return core.DomainResult{
		DomainName: name,
		Available:  core.AvailableError,
		Message:    "search failed: " + err.Error(),
	}
}
