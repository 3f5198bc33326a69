package crop

import (
	"fmt"
	"strings"
	"time"
)

// AllTypes is the crop-type filter value that matches everything.
const AllTypes = "all"

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// DisplayDate renders a backend date as M/D/YYYY in the offset it was
// written with. Unparsable input is returned unchanged.
func DisplayDate(s string) string {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("1/2/2006")
		}
	}
	return s
}

// PesticidesLabel is the pesticide description shown to users.
func (c Crop) PesticidesLabel() string {
	if strings.TrimSpace(c.PesticidesUsed) == "" {
		return "None"
	}
	return c.PesticidesUsed
}

// ScanPath is the public path embedded in a crop's scan code.
func ScanPath(id string) string {
	return "/scan/" + id
}

// Summary is the text shown when a scanned code resolves to a crop.
func Summary(c Crop) string {
	var b strings.Builder
	b.WriteString("Crop Found!\n\n")
	fmt.Fprintf(&b, "Name: %s\n", c.Name)
	fmt.Fprintf(&b, "Type: %s\n", c.CropType)
	fmt.Fprintf(&b, "Harvest Date: %s\n", DisplayDate(c.HarvestDate))
	fmt.Fprintf(&b, "Expiry Date: %s\n", DisplayDate(c.ExpiryDate))
	fmt.Fprintf(&b, "Soil Type: %s\n", c.SoilType)
	fmt.Fprintf(&b, "Pesticides: %s", c.PesticidesLabel())
	if c.Farmer != nil {
		fmt.Fprintf(&b, "\nFarmer: %s (ID: %s), %s", c.Farmer.Name, c.Farmer.FarmerID, c.Farmer.Location)
	}
	if c.Distributor != nil {
		fmt.Fprintf(&b, "\nDistributor: %s, %s", c.Distributor.Name, c.Distributor.Location)
		if c.Distributor.ReceivedDate != "" {
			fmt.Fprintf(&b, " (received %s)", DisplayDate(c.Distributor.ReceivedDate))
		}
	}
	if c.Retailer != nil {
		fmt.Fprintf(&b, "\nRetailer: %s, %s", c.Retailer.Name, c.Retailer.Location)
		if c.Retailer.ReceivedDate != "" {
			fmt.Fprintf(&b, " (received %s)", DisplayDate(c.Retailer.ReceivedDate))
		}
	}
	return b.String()
}

// Filter keeps crops whose name or type contains search and whose type
// contains cropType. Both comparisons ignore case; an empty search or
// AllTypes disables the respective check.
func Filter(crops []Crop, search, cropType string) []Crop {
	search = strings.ToLower(search)
	cropType = strings.ToLower(cropType)
	out := make([]Crop, 0, len(crops))
	for _, c := range crops {
		name := strings.ToLower(c.Name)
		typ := strings.ToLower(c.CropType)
		matchesSearch := strings.Contains(name, search) || strings.Contains(typ, search)
		matchesType := cropType == AllTypes || cropType == "" || strings.Contains(typ, cropType)
		if matchesSearch && matchesType {
			out = append(out, c)
		}
	}
	return out
}

// Types lists AllTypes followed by each distinct crop type in first-seen order.
func Types(crops []Crop) []string {
	seen := make(map[string]struct{}, len(crops))
	out := []string{AllTypes}
	for _, c := range crops {
		if _, ok := seen[c.CropType]; ok {
			continue
		}
		seen[c.CropType] = struct{}{}
		out = append(out, c.CropType)
	}
	return out
}
