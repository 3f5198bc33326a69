package crop

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Text is a scalar the backend may send as a string, a number, a boolean
// or null. Numbers and booleans keep their literal form, null becomes "",
// and objects or arrays are kept as compact JSON so decoding never fails
// on a field whose type drifted.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*t = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case data[0] == '{' || data[0] == '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, data); err != nil {
			return err
		}
		*t = Text(buf.String())
	default:
		*t = Text(data)
	}
	return nil
}

func (t Text) String() string { return string(t) }

// Or returns t, or fallback when t is empty.
func (t Text) Or(fallback string) string {
	if t == "" {
		return fallback
	}
	return string(t)
}

// UnmarshalJSON accepts a reference in any shape. Only an object carries
// an id; a bare scalar or array leaves the reference empty.
func (r *WireRef) UnmarshalJSON(data []byte) error {
	*r = WireRef{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil
	}
	type plain WireRef
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = WireRef(p)
	return nil
}

// UnmarshalJSON decodes a backend crop. Anything other than an object
// decodes to an empty crop. Every field except the crop id treats false
// and numeric zero as absent, as the backend's own clients do.
func (w *Wire) UnmarshalJSON(data []byte) error {
	*w = Wire{}
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil
	}
	type plain Wire
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*w = Wire(p)
	for key, field := range w.optional() {
		if falsy(raw[key]) {
			*field = ""
		}
	}
	return nil
}

func (w *Wire) optional() map[string]*Text {
	return map[string]*Text{
		"name":                        &w.Name,
		"cropType":                    &w.CropType,
		"harvestDate":                 &w.HarvestDate,
		"expiryDate":                  &w.ExpiryDate,
		"soilType":                    &w.SoilType,
		"pesticidesUsed":              &w.PesticidesUsed,
		"imageUrl":                    &w.ImageURL,
		"createdAt":                   &w.CreatedAt,
		"farmerId":                    &w.FarmerID,
		"farmerName":                  &w.FarmerName,
		"farmerLocation":              &w.FarmerLocation,
		"distributorId":               &w.DistributorID,
		"distributorName":             &w.DistributorName,
		"distributorLocation":         &w.DistributorLocation,
		"distributorReceivedDate":     &w.DistributorReceivedDate,
		"sentToRetailer":              &w.SentToRetailer,
		"retailerLocation":            &w.RetailerLocation,
		"retailerId":                  &w.RetailerID,
		"retailerName":                &w.RetailerName,
		"retailerReceivedDate":        &w.RetailerReceivedDate,
		"receivedFromDistributor":     &w.ReceivedFromDistributor,
		"distributorLocationRetailer": &w.DistributorLocationRetailer,
	}
}

// falsy reports a JSON false or a number equal to zero.
func falsy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}
	if bytes.Equal(raw, []byte("false")) {
		return true
	}
	if c := raw[0]; c != '-' && (c < '0' || c > '9') {
		return false
	}
	f, err := strconv.ParseFloat(string(raw), 64)
	return err == nil && f == 0
}
