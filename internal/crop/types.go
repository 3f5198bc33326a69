package crop

// Placeholder used for custody names and locations the backend left out.
const Unknown = "Unknown"

// Crop is the client-side view of a harvest batch.
// Custody segments are nil until the backend reports that stage.
type Crop struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	CropType       string       `json:"crop_type"`
	HarvestDate    string       `json:"harvest_date"`
	ExpiryDate     string       `json:"expiry_date"`
	SoilType       string       `json:"soil_type"`
	PesticidesUsed string       `json:"pesticides_used"`
	ImageURL       string       `json:"image_url"`
	UserID         string       `json:"user_id"`
	CreatedAt      string       `json:"created_at"`
	Farmer         *Farmer      `json:"farmer_info,omitempty"`
	Distributor    *Distributor `json:"distributor_info,omitempty"`
	Retailer       *Retailer    `json:"retailer_info,omitempty"`
}

type Farmer struct {
	FarmerID string `json:"farmer_id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

type Distributor struct {
	Name             string `json:"name"`
	Location         string `json:"location"`
	ReceivedDate     string `json:"received_date"`
	SentToRetailer   string `json:"sent_to_retailer"`
	RetailerLocation string `json:"retailer_location"`
}

type Retailer struct {
	Name                    string `json:"name"`
	Location                string `json:"location"`
	ReceivedDate            string `json:"received_date"`
	ReceivedFromDistributor string `json:"received_from_distributor"`
	DistributorLocation     string `json:"distributor_location"`
}

// Wire is a crop as the backend serializes it. Every field is optional.
type Wire struct {
	ID             Text     `json:"id,omitempty"`
	Name           Text     `json:"name,omitempty"`
	CropType       Text     `json:"cropType,omitempty"`
	HarvestDate    Text     `json:"harvestDate,omitempty"`
	ExpiryDate     Text     `json:"expiryDate,omitempty"`
	SoilType       Text     `json:"soilType,omitempty"`
	PesticidesUsed Text     `json:"pesticidesUsed,omitempty"`
	ImageURL       Text     `json:"imageUrl,omitempty"`
	CreatedAt      Text     `json:"createdAt,omitempty"`
	User           *WireRef `json:"user,omitempty"`

	FarmerID       Text `json:"farmerId,omitempty"`
	FarmerName     Text `json:"farmerName,omitempty"`
	FarmerLocation Text `json:"farmerLocation,omitempty"`

	DistributorID           Text `json:"distributorId,omitempty"`
	DistributorName         Text `json:"distributorName,omitempty"`
	DistributorLocation     Text `json:"distributorLocation,omitempty"`
	DistributorReceivedDate Text `json:"distributorReceivedDate,omitempty"`
	SentToRetailer          Text `json:"sentToRetailer,omitempty"`
	RetailerLocation        Text `json:"retailerLocation,omitempty"`

	RetailerID                  Text `json:"retailerId,omitempty"`
	RetailerName                Text `json:"retailerName,omitempty"`
	RetailerReceivedDate        Text `json:"retailerReceivedDate,omitempty"`
	ReceivedFromDistributor     Text `json:"receivedFromDistributor,omitempty"`
	DistributorLocationRetailer Text `json:"distributorLocationRetailer,omitempty"`
}

// WireRef is a nested reference such as the owning user.
type WireRef struct {
	ID Text `json:"id,omitempty"`
}

// Draft is the body of crop create and update requests.
type Draft struct {
	Name           string `json:"name"`
	CropType       string `json:"cropType"`
	HarvestDate    string `json:"harvestDate"`
	ExpiryDate     string `json:"expiryDate"`
	SoilType       string `json:"soilType"`
	PesticidesUsed string `json:"pesticidesUsed"`
	ImageURL       string `json:"imageUrl"`
}
