package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/Adithya91-code/Farmchaingpt/internal/account"
	"github.com/Adithya91-code/Farmchaingpt/internal/crop"
	"github.com/Adithya91-code/Farmchaingpt/internal/gateway"
	"github.com/Adithya91-code/Farmchaingpt/internal/session"
)

type command func(ctx context.Context, a *app, args []string) error

var commands = map[string]command{
	"signin":      runSignIn,
	"signup":      runSignUp,
	"signout":     runSignOut,
	"whoami":      runWhoAmI,
	"list":        runList,
	"create":      runCreate,
	"update":      runUpdate,
	"delete":      runDelete,
	"farmer":      runFarmer,
	"distributor": runDistributor,
	"scan":        runScan,
}

func newFlags(name string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

func runSignIn(ctx context.Context, a *app, args []string) error {
	fs := newFlags("signin", a.out)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := a.account.SignIn(ctx, *email, *password)
	if err != nil {
		return err
	}
	return a.print(id)
}

func runSignUp(ctx context.Context, a *app, args []string) error {
	fs := newFlags("signup", a.out)
	var in account.SignUpInput
	fs.StringVar(&in.Email, "email", "", "account email")
	fs.StringVar(&in.Password, "password", "", "account password")
	fs.StringVar(&in.Name, "name", "", "display name")
	fs.StringVar(&in.Location, "location", "", "farm, depot or shop location")
	fs.StringVar(&in.Role, "role", string(session.RoleFarmer), "farmer, distributor or retailer")
	if err := fs.Parse(args); err != nil {
		return err
	}
	id, err := a.account.SignUp(ctx, in)
	if err != nil {
		return err
	}
	return a.print(id)
}

func runSignOut(ctx context.Context, a *app, _ []string) error {
	return a.account.SignOut(ctx)
}

type whoami struct {
	Identity    *session.Identity `json:"identity"`
	Subject     string            `json:"token_subject,omitempty"`
	ExpiresAt   string            `json:"token_expires_at,omitempty"`
	Expired     bool              `json:"token_expired"`
	SessionFile string            `json:"session_file,omitempty"`
}

func runWhoAmI(ctx context.Context, a *app, _ []string) error {
	id, ok, err := a.account.Current(ctx)
	if err != nil {
		return err
	}
	out := whoami{SessionFile: a.sessionFile}
	if ok {
		out.Identity = &id
	}
	token, err := a.store.Token(ctx)
	if err != nil {
		return err
	}
	if token != "" {
		if claims, err := session.TokenClaims(token); err == nil {
			out.Subject = claims.Subject
			out.Expired = claims.Expired(time.Now())
			if !claims.ExpiresAt.IsZero() {
				out.ExpiresAt = claims.ExpiresAt.UTC().Format(time.RFC3339)
			}
		}
	}
	return a.print(out)
}

func runList(ctx context.Context, a *app, args []string) error {
	fs := newFlags("list", a.out)
	search := fs.String("search", "", "match name or type")
	cropType := fs.String("type", crop.AllTypes, "crop type filter")
	types := fs.Bool("types", false, "print the available crop types instead")
	if err := fs.Parse(args); err != nil {
		return err
	}
	crops, err := unwrap(gateway.Map(a.client.ListCrops(ctx), crop.FromWireList))
	if err != nil {
		return err
	}
	if *types {
		return a.print(crop.Types(crops))
	}
	return a.print(crop.Filter(crops, *search, *cropType))
}

func draftFlags(fs *flag.FlagSet) *crop.Draft {
	d := &crop.Draft{}
	fs.StringVar(&d.Name, "name", "", "crop name")
	fs.StringVar(&d.CropType, "type", "", "crop type")
	fs.StringVar(&d.HarvestDate, "harvest", "", "harvest date (YYYY-MM-DD)")
	fs.StringVar(&d.ExpiryDate, "expiry", "", "expiry date (YYYY-MM-DD)")
	fs.StringVar(&d.SoilType, "soil", "", "soil type")
	fs.StringVar(&d.PesticidesUsed, "pesticides", "", "pesticides used")
	fs.StringVar(&d.ImageURL, "image", "", "image URL")
	return d
}

// createdCrop adds the path a scan code for the new crop should encode.
type createdCrop struct {
	crop.Crop
	ScanPath string `json:"scan_path,omitempty"`
}

func runCreate(ctx context.Context, a *app, args []string) error {
	fs := newFlags("create", a.out)
	d := draftFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	c, err := unwrap(gateway.Map(a.client.CreateCrop(ctx, *d), crop.FromWire))
	if err != nil {
		return err
	}
	out := createdCrop{Crop: c}
	if c.ID != "" {
		out.ScanPath = crop.ScanPath(c.ID)
	}
	return a.print(out)
}

func runUpdate(ctx context.Context, a *app, args []string) error {
	fs := newFlags("update", a.out)
	id := fs.String("id", "", "crop id")
	d := draftFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("update: -id is required")
	}
	c, err := unwrap(gateway.Map(a.client.UpdateCrop(ctx, *id, *d), crop.FromWire))
	if err != nil {
		return err
	}
	return a.print(c)
}

func runDelete(ctx context.Context, a *app, args []string) error {
	fs := newFlags("delete", a.out)
	id := fs.String("id", "", "crop id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		return errors.New("delete: -id is required")
	}
	_, err := unwrap(a.client.DeleteCrop(ctx, *id))
	return err
}

func runFarmer(ctx context.Context, a *app, args []string) error {
	fs := newFlags("farmer", a.out)
	id := fs.String("id", "", "farmer id (defaults to the signed-in farmer)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		*id = a.identityField(ctx, func(i session.Identity) string { return i.FarmerID })
	}
	if *id == "" {
		return errors.New("farmer: no farmer id; pass -id or sign in as a farmer")
	}
	crops, err := unwrap(gateway.Map(a.client.ListFarmerCrops(ctx, *id), crop.FromWireList))
	if err != nil {
		return err
	}
	return a.print(crops)
}

func runDistributor(ctx context.Context, a *app, args []string) error {
	fs := newFlags("distributor", a.out)
	id := fs.String("id", "", "distributor id (defaults to the signed-in distributor)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *id == "" {
		*id = a.identityField(ctx, func(i session.Identity) string { return i.DistributorID })
	}
	if *id == "" {
		return errors.New("distributor: no distributor id; pass -id or sign in as a distributor")
	}
	crops, err := unwrap(gateway.Map(a.client.ListDistributorCrops(ctx, *id), crop.FromWireList))
	if err != nil {
		return err
	}
	return a.print(crops)
}

func runScan(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "usage: farmchain scan <cropId>")
		return errUsage
	}
	c, err := unwrap(gateway.Map(a.client.ScanCrop(ctx, args[0]), crop.FromWire))
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, crop.Summary(c))
	return err
}

func (a *app) identityField(ctx context.Context, pick func(session.Identity) string) string {
	id, ok, err := a.account.Current(ctx)
	if err != nil || !ok {
		return ""
	}
	return pick(id)
}

func (a *app) print(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func unwrap[T any](r gateway.Result[T]) (T, error) {
	if !r.OK() {
		var zero T
		return zero, errors.New(r.Error)
	}
	return r.Data, nil
}
