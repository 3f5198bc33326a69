package main

import (
	"log"

	"github.com/Adithya91-code/Farmchaingpt/internal/crop"
	"github.com/Adithya91-code/Farmchaingpt/internal/devserver"
)

const demoPassword = "farmchain"

func seedDemo(dev *devserver.Server) error {
	users := []struct{ email, name, location, role string }{
		{"farmer@farmchain.dev", "Asha Patil", "Pune", "FARMER"},
		{"distributor@farmchain.dev", "FreshWay Logistics", "Nashik", "DISTRIBUTOR"},
		{"retailer@farmchain.dev", "GreenMart", "Mumbai", "RETAILER"},
	}
	for _, u := range users {
		if _, err := dev.Register(u.email, demoPassword, u.name, u.location, u.role); err != nil {
			return err
		}
	}

	id, err := dev.CreateCrop("farmer@farmchain.dev", crop.Draft{
		Name:           "Roma Tomatoes",
		CropType:       "Tomato",
		HarvestDate:    "2024-06-01",
		ExpiryDate:     "2024-06-20",
		SoilType:       "Black soil",
		PesticidesUsed: "Neem oil",
	})
	if err != nil {
		return err
	}
	if err := dev.AssignDistributor(id, "distributor@farmchain.dev", "2024-06-03"); err != nil {
		return err
	}
	if err := dev.AssignRetailer(id, "retailer@farmchain.dev", "2024-06-05"); err != nil {
		return err
	}
	log.Printf("seeded demo users (password %q) and crop %s", demoPassword, id)
	return nil
}
