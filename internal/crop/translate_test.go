package crop

import (
	"encoding/json"
	"testing"
)

func decodeWire(t *testing.T, raw string) Wire {
	t.Helper()
	var w Wire
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		t.Fatalf("decode wire: %v", err)
	}
	return w
}

func TestFromWireEmptyShape(t *testing.T) {
	c := FromWire(decodeWire(t, `{}`))
	if c != (Crop{}) {
		t.Fatalf("expected zero crop, got %+v", c)
	}
	if c.Farmer != nil || c.Distributor != nil || c.Retailer != nil {
		t.Fatalf("unexpected custody segments: %+v", c)
	}
}

func TestFromWireNullFields(t *testing.T) {
	c := FromWire(decodeWire(t, `{"id":null,"name":null,"pesticidesUsed":null,"farmerId":null,"user":null}`))
	if c.ID != "" || c.Name != "" || c.PesticidesUsed != "" || c.UserID != "" {
		t.Fatalf("null scalars should map to empty strings: %+v", c)
	}
	if c.Farmer != nil {
		t.Fatalf("null farmer id must not synthesize a segment")
	}
}

func TestFromWireScalars(t *testing.T) {
	c := FromWire(decodeWire(t, `{
		"id": 42,
		"name": "Roma",
		"cropType": "Tomato",
		"harvestDate": "2024-06-01",
		"expiryDate": "2024-06-20",
		"soilType": "Loam",
		"pesticidesUsed": "Neem oil",
		"imageUrl": "https://img.example/roma.png",
		"createdAt": "2024-06-01T08:00:00Z",
		"user": {"id": 7}
	}`))
	want := Crop{
		ID:             "42",
		Name:           "Roma",
		CropType:       "Tomato",
		HarvestDate:    "2024-06-01",
		ExpiryDate:     "2024-06-20",
		SoilType:       "Loam",
		PesticidesUsed: "Neem oil",
		ImageURL:       "https://img.example/roma.png",
		UserID:         "7",
		CreatedAt:      "2024-06-01T08:00:00Z",
	}
	if c != want {
		t.Fatalf("FromWire() = %+v, want %+v", c, want)
	}
}

func TestFromWireCustodySegments(t *testing.T) {
	cases := []struct {
		name        string
		raw         string
		farmer      *Farmer
		distributor *Distributor
		retailer    *Retailer
	}{
		{
			name:   "farmer defaults",
			raw:    `{"farmerId": 3}`,
			farmer: &Farmer{FarmerID: "3", Name: Unknown, Location: Unknown},
		},
		{
			name:   "farmer supplied",
			raw:    `{"farmerId": "f-1", "farmerName": "Asha", "farmerLocation": "Pune"}`,
			farmer: &Farmer{FarmerID: "f-1", Name: "Asha", Location: "Pune"},
		},
		{
			name:        "distributor defaults",
			raw:         `{"distributorId": 9}`,
			distributor: &Distributor{Name: Unknown, Location: Unknown},
		},
		{
			name: "distributor supplied",
			raw: `{"distributorId": 9, "distributorName": "FreshWay", "distributorLocation": "Nashik",
				"distributorReceivedDate": "2024-06-03", "sentToRetailer": "GreenMart", "retailerLocation": "Mumbai"}`,
			distributor: &Distributor{Name: "FreshWay", Location: "Nashik", ReceivedDate: "2024-06-03", SentToRetailer: "GreenMart", RetailerLocation: "Mumbai"},
			retailer:    nil,
		},
		{
			name: "retailer keyed on name",
			raw:  `{"retailerName": "GreenMart", "retailerReceivedDate": "2024-06-05", "receivedFromDistributor": "FreshWay", "distributorLocationRetailer": "Nashik"}`,
			retailer: &Retailer{
				Name:                    "GreenMart",
				Location:                Unknown,
				ReceivedDate:            "2024-06-05",
				ReceivedFromDistributor: "FreshWay",
				DistributorLocation:     "Nashik",
			},
		},
		{
			name: "retailer id without name",
			raw:  `{"retailerId": 11, "retailerLocation": "Mumbai"}`,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			c := FromWire(decodeWire(t, tc.raw))
			if !equalPtr(c.Farmer, tc.farmer) {
				t.Fatalf("farmer = %+v, want %+v", c.Farmer, tc.farmer)
			}
			if !equalPtr(c.Distributor, tc.distributor) {
				t.Fatalf("distributor = %+v, want %+v", c.Distributor, tc.distributor)
			}
			if !equalPtr(c.Retailer, tc.retailer) {
				t.Fatalf("retailer = %+v, want %+v", c.Retailer, tc.retailer)
			}
		})
	}
}

func equalPtr[T comparable](got, want *T) bool {
	if got == nil || want == nil {
		return got == nil && want == nil
	}
	return *got == *want
}

func TestFromWireDriftedTypes(t *testing.T) {
	c := FromWire(decodeWire(t, `{"id": true, "createdAt": [2024, 6, 1], "user": {"id": {"v": 1}}}`))
	if c.ID != "true" {
		t.Fatalf("unexpected id: %q", c.ID)
	}
	if c.CreatedAt != "[2024,6,1]" {
		t.Fatalf("unexpected createdAt: %q", c.CreatedAt)
	}
	if c.UserID != `{"v":1}` {
		t.Fatalf("unexpected user id: %q", c.UserID)
	}
}

func TestFromWireListNil(t *testing.T) {
	got := FromWireList(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", got)
	}
}

func TestFromWireFalsyValues(t *testing.T) {
	c := FromWire(decodeWire(t, `{"id": 0, "farmerId": 0, "distributorId": false, "retailerName": 0,
		"pesticidesUsed": false, "soilType": 0.0, "name": "Okra", "user": {"id": 0}}`))
	if c.Farmer != nil || c.Distributor != nil || c.Retailer != nil {
		t.Fatalf("falsy discriminators must not produce segments: %+v", c)
	}
	if c.PesticidesUsed != "" || c.SoilType != "" {
		t.Fatalf("falsy scalars should be empty: %+v", c)
	}
	if c.ID != "0" || c.UserID != "0" || c.Name != "Okra" {
		t.Fatalf("identifiers keep their literal form: %+v", c)
	}
	if c.PesticidesLabel() != "None" {
		t.Fatalf("PesticidesLabel() = %q", c.PesticidesLabel())
	}
}

func TestFromWireListSurvivesOddElements(t *testing.T) {
	var ws []Wire
	raw := `[{"id":1,"name":"Roma","user":5},{"id":2,"name":"Okra","farmerId":7,"user":[1]},"junk",{"id":3,"user":{"id":9}}]`
	if err := json.Unmarshal([]byte(raw), &ws); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	got := FromWireList(ws)
	if len(got) != 4 {
		t.Fatalf("expected 4 crops, got %d", len(got))
	}
	if got[0].Name != "Roma" || got[0].UserID != "" {
		t.Fatalf("scalar user should leave user id empty: %+v", got[0])
	}
	if got[1].UserID != "" || got[1].Farmer == nil || got[1].Farmer.FarmerID != "7" {
		t.Fatalf("unexpected second crop: %+v", got[1])
	}
	if got[2] != (Crop{}) {
		t.Fatalf("non-object element should be an empty crop: %+v", got[2])
	}
	if got[3].UserID != "9" {
		t.Fatalf("object user should keep its id: %+v", got[3])
	}
}

func TestDraftRoundTrip(t *testing.T) {
	cases := []struct {
		name string
		crop Crop
	}{
		{
			name: "typical",
			crop: Crop{
				Name:        "Alphonso",
				CropType:    "Mango",
				HarvestDate: "2024-05-01",
				ExpiryDate:  "2024-05-15",
				SoilType:    "Laterite",
				ImageURL:    "https://img.example/mango.png",
				Farmer:      &Farmer{FarmerID: "1"},
			},
		},
		{
			name: "empty",
			crop: Crop{},
		},
		{
			name: "unicode",
			crop: Crop{
				Name:           "टमाटर 🍅",
				CropType:       "Tomate rôtie",
				HarvestDate:    "2024-06-01",
				ExpiryDate:     "2024-06-20",
				SoilType:       "黑土",
				PesticidesUsed: "Neem \"oil\", ½ dose",
				ImageURL:       "https://img.example/ü.png?q=1&r=2",
			},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			draft := ToDraft(tc.crop)
			body, err := json.Marshal(draft)
			if err != nil {
				t.Fatalf("marshal draft: %v", err)
			}
			var fields map[string]any
			if err := json.Unmarshal(body, &fields); err != nil {
				t.Fatalf("decode draft: %v", err)
			}
			for _, key := range []string{"name", "cropType", "harvestDate", "expiryDate", "soilType", "pesticidesUsed", "imageUrl"} {
				if _, ok := fields[key]; !ok {
					t.Fatalf("draft body missing %q: %s", key, body)
				}
			}
			if _, ok := fields["farmerId"]; ok {
				t.Fatalf("draft must not carry custody fields: %s", body)
			}

			back := FromWire(decodeWire(t, string(body)))
			want := tc.crop
			want.Farmer, want.Distributor, want.Retailer = nil, nil, nil
			if back != want {
				t.Fatalf("round trip = %+v, want %+v", back, want)
			}
			if draft.Crop() != back {
				t.Fatalf("Draft.Crop() = %+v, want %+v", draft.Crop(), back)
			}
		})
	}
}
