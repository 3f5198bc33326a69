package devserver

import "github.com/Adithya91-code/Farmchaingpt/internal/crop"

// CreateCrop stores a crop for the farmer registered under email and
// returns its id.
func (s *Server) CreateCrop(email string, d crop.Draft) (string, error) {
	f, ok := s.store.userByEmail(email)
	if !ok {
		return "", ErrUserNotFound
	}
	if f.Role != roleFarmer {
		return "", ErrWrongRole
	}
	return s.store.createCrop(f, d).ID.String(), nil
}

// AssignDistributor records that the distributor registered under email
// received the crop. It stands in for the supply-chain service that owns
// custody transfers.
func (s *Server) AssignDistributor(cropID, email, receivedDate string) error {
	d, ok := s.store.userByEmail(email)
	if !ok {
		return ErrUserNotFound
	}
	if d.Role != roleDistributor {
		return ErrWrongRole
	}
	return s.store.mutate(cropID, func(w *crop.Wire) {
		w.DistributorID = crop.Text(d.DistributorID)
		w.DistributorName = crop.Text(d.Name)
		w.DistributorLocation = crop.Text(d.Location)
		w.DistributorReceivedDate = crop.Text(receivedDate)
	})
}

// AssignRetailer records the hand-off from the current distributor to the
// retailer registered under email.
func (s *Server) AssignRetailer(cropID, email, receivedDate string) error {
	rt, ok := s.store.userByEmail(email)
	if !ok {
		return ErrUserNotFound
	}
	if rt.Role != roleRetailer {
		return ErrWrongRole
	}
	return s.store.mutate(cropID, func(w *crop.Wire) {
		w.SentToRetailer = crop.Text(rt.Name)
		w.RetailerLocation = crop.Text(rt.Location)
		w.RetailerID = crop.Text(rt.ID)
		w.RetailerName = crop.Text(rt.Name)
		w.RetailerReceivedDate = crop.Text(receivedDate)
		w.ReceivedFromDistributor = w.DistributorName
		w.DistributorLocationRetailer = w.DistributorLocation
	})
}
