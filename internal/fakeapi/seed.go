package fakeapi

import (
	"fmt"

	"github.com/Pallinder/go-randomdata"
)

// seedItem generates the i-th stock item of a collection.
func seedItem(name string, i int) map[string]any {
	switch name {
	case "categories":
		return map[string]any{
			"id":   fmt.Sprintf("abcat%07d", i),
			"name": randomdata.Adjective() + " " + randomdata.Noun(),
		}
	case "products":
		return map[string]any{
			"name":         randomdata.SillyName(),
			"type":         "HardGood",
			"price":        randomdata.Decimal(1, 500, 2),
			"shipping":     randomdata.Number(0, 20),
			"upc":          randomdata.StringNumber(6, ""),
			"description":  randomdata.Adjective() + " " + randomdata.Noun(),
			"manufacturer": randomdata.SillyName(),
			"model":        randomdata.StringNumber(3, "-"),
			"url":          fmt.Sprintf("https://example.com/products/%d", i),
			"image":        fmt.Sprintf("https://example.com/images/%d.jpg", i),
		}
	case "services":
		return map[string]any{
			"name": randomdata.SillyName() + " Services",
		}
	case "stores":
		return map[string]any{
			"name":     randomdata.City(),
			"type":     "BigBox",
			"address":  randomdata.Street(),
			"address2": "",
			"city":     randomdata.City(),
			"state":    randomdata.State(randomdata.Small),
			"zip":      randomdata.StringNumber(5, ""),
			"lat":      randomdata.Decimal(25, 48, 6),
			"lng":      -randomdata.Decimal(70, 122, 6),
			"hours":    "Mon: 10-9; Tue: 10-9; Wed: 10-9; Thurs: 10-9; Fri: 10-9; Sat: 10-9; Sun: 10-8",
		}
	default:
		return map[string]any{"name": randomdata.SillyName()}
	}
}
