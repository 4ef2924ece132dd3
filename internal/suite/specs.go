package suite

import (
	"time"

	"github.com/Adda-Baaj/storefront-apitest/internal/domain"
	"github.com/Pallinder/go-randomdata"
	"github.com/google/uuid"
)

func label(kind string) domain.Flex {
	return domain.String("Test " + kind + " " + randomdata.SillyName())
}

func categorySpec() itemSpec[domain.Category] {
	return itemSpec[domain.Category]{
		valid: func() domain.Category {
			return domain.Category{
				ID:   domain.ItemID("test-" + uuid.NewString()),
				Name: label("Category"),
			}
		},
		invalid: func() domain.Category {
			return domain.Category{Name: domain.Int(123)}
		},
		invalidErrors: []string{
			"'name' should be string",
			"should have required property 'id'",
		},
		patch: func() domain.Category {
			return domain.Category{Name: label("Renamed Category")}
		},
		id: func(c domain.Category) domain.ItemID { return c.ID },
		normalize: func(c domain.Category) domain.Category {
			// category ids are chosen by the client and must round trip
			c.CreatedAt, c.UpdatedAt = time.Time{}, time.Time{}
			c.Subcategories = nil
			return c
		},
	}
}

func productSpec() itemSpec[domain.Product] {
	valid := func() domain.Product {
		return domain.Product{
			Name:         label("Product"),
			Type:         "Test",
			Price:        domain.Number(12.01),
			Shipping:     2,
			UPC:          "UpcTest",
			Description:  randomdata.Paragraph(),
			Manufacturer: randomdata.FullName(randomdata.RandomGender),
			Model:        randomdata.StringNumber(2, "-"),
			URL:          "https://example.com/products/" + randomdata.Noun(),
			Image:        "https://example.com/images/" + randomdata.Noun() + ".jpg",
		}
	}
	return itemSpec[domain.Product]{
		valid: valid,
		invalid: func() domain.Product {
			p := valid()
			p.Name = domain.Int(123)
			p.Price = domain.String("12.01m")
			return p
		},
		invalidErrors: []string{
			"'name' should be string",
			"'price' should be number",
		},
		patch: func() domain.Product {
			return domain.Product{
				Name:        label("Renamed Product"),
				Price:       domain.Int(2),
				Description: randomdata.Paragraph(),
			}
		},
		id: func(p domain.Product) domain.ItemID { return p.ID },
		normalize: func(p domain.Product) domain.Product {
			p.ID = ""
			p.CreatedAt, p.UpdatedAt = time.Time{}, time.Time{}
			p.Categories = nil
			return p
		},
	}
}

func serviceSpec() itemSpec[domain.Service] {
	return itemSpec[domain.Service]{
		valid: func() domain.Service {
			return domain.Service{Name: label("Service")}
		},
		invalid: func() domain.Service {
			return domain.Service{Name: domain.Int(123)}
		},
		invalidErrors: []string{"'name' should be string"},
		patch: func() domain.Service {
			return domain.Service{Name: label("Renamed Service")}
		},
		id: func(s domain.Service) domain.ItemID { return s.ID },
		normalize: func(s domain.Service) domain.Service {
			s.ID = ""
			s.CreatedAt, s.UpdatedAt = time.Time{}, time.Time{}
			s.Stores = nil
			return s
		},
	}
}

func storeSpec() itemSpec[domain.Store] {
	valid := func() domain.Store {
		return domain.Store{
			Name:     label("Store"),
			Type:     "Test",
			Address:  randomdata.Address(),
			Address2: "Unit " + randomdata.StringNumber(1, ""),
			City:     randomdata.City(),
			State:    randomdata.State(randomdata.Small),
			Zip:      randomdata.PostalCode("US"),
			Lat:      domain.Int(123),
			Lng:      123,
			Hours:    "Mon: 10-9; Tue: 10-9; Wed: 10-9",
		}
	}
	return itemSpec[domain.Store]{
		valid: valid,
		invalid: func() domain.Store {
			s := valid()
			s.Name = domain.Int(123)
			s.Lat = domain.String("123")
			return s
		},
		invalidErrors: []string{
			"'name' should be string",
			"'lat' should be number",
		},
		patch: func() domain.Store {
			return domain.Store{
				Name: label("Renamed Store"),
				City: randomdata.City(),
				Lat:  domain.Number(44.5),
			}
		},
		id: func(s domain.Store) domain.ItemID { return s.ID },
		normalize: func(s domain.Store) domain.Store {
			s.ID = ""
			s.CreatedAt, s.UpdatedAt = time.Time{}, time.Time{}
			s.Services = nil
			return s
		},
	}
}
