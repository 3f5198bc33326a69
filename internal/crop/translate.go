package crop

// FromWire converts a backend crop into the domain view.
//
// Farmer and distributor segments are keyed on their identifiers, the
// retailer segment on the retailer name. A retailer id without a name does
// not produce a segment. Discriminators decoded from false or 0 are empty
// and produce no segment either.
func FromWire(w Wire) Crop {
	c := Crop{
		ID:             w.ID.String(),
		Name:           w.Name.String(),
		CropType:       w.CropType.String(),
		HarvestDate:    w.HarvestDate.String(),
		ExpiryDate:     w.ExpiryDate.String(),
		SoilType:       w.SoilType.String(),
		PesticidesUsed: w.PesticidesUsed.String(),
		ImageURL:       w.ImageURL.String(),
		CreatedAt:      w.CreatedAt.String(),
	}
	if w.User != nil {
		c.UserID = w.User.ID.String()
	}
	if w.FarmerID != "" {
		c.Farmer = &Farmer{
			FarmerID: w.FarmerID.String(),
			Name:     w.FarmerName.Or(Unknown),
			Location: w.FarmerLocation.Or(Unknown),
		}
	}
	if w.DistributorID != "" {
		c.Distributor = &Distributor{
			Name:             w.DistributorName.Or(Unknown),
			Location:         w.DistributorLocation.Or(Unknown),
			ReceivedDate:     w.DistributorReceivedDate.String(),
			SentToRetailer:   w.SentToRetailer.String(),
			RetailerLocation: w.RetailerLocation.String(),
		}
	}
	if w.RetailerName != "" {
		c.Retailer = &Retailer{
			Name:                    w.RetailerName.String(),
			Location:                w.RetailerLocation.Or(Unknown),
			ReceivedDate:            w.RetailerReceivedDate.String(),
			ReceivedFromDistributor: w.ReceivedFromDistributor.String(),
			DistributorLocation:     w.DistributorLocationRetailer.String(),
		}
	}
	return c
}

// FromWireList converts every element of ws. A nil input yields an empty slice.
func FromWireList(ws []Wire) []Crop {
	out := make([]Crop, 0, len(ws))
	for _, w := range ws {
		out = append(out, FromWire(w))
	}
	return out
}

// ToDraft maps the writable scalar fields back to backend names.
// Custody segments are owned by the supply-chain operations and never sent.
func ToDraft(c Crop) Draft {
	return Draft{
		Name:           c.Name,
		CropType:       c.CropType,
		HarvestDate:    c.HarvestDate,
		ExpiryDate:     c.ExpiryDate,
		SoilType:       c.SoilType,
		PesticidesUsed: c.PesticidesUsed,
		ImageURL:       c.ImageURL,
	}
}

// Wire returns the draft in the backend's read shape, as echoed by a create.
func (d Draft) Wire() Wire {
	return Wire{
		Name:           Text(d.Name),
		CropType:       Text(d.CropType),
		HarvestDate:    Text(d.HarvestDate),
		ExpiryDate:     Text(d.ExpiryDate),
		SoilType:       Text(d.SoilType),
		PesticidesUsed: Text(d.PesticidesUsed),
		ImageURL:       Text(d.ImageURL),
	}
}

// Crop returns the draft as an unsaved domain crop (no id, no custody).
func (d Draft) Crop() Crop {
	return FromWire(d.Wire())
}
