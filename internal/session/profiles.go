package session

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/parley-ai/parley/internal/types"
)

// Profile is the session initialization contract: the fields a
// collaborator supplies when opening a negotiation. Everything else on
// the session starts empty.
type Profile struct {
	CustomerID          string  `yaml:"customer_id"`
	OrganizationName    string  `yaml:"organization_name"`
	ProductName         string  `yaml:"product_name"`
	DebtAmount          float64 `yaml:"debt_amount"`
	Currency            string  `yaml:"currency"`
	DPD                 int     `yaml:"dpd"`
	BrokenPromises      int     `yaml:"broken_promises"`
	PaymentRefusals     int     `yaml:"payment_refusals"`
	ExtensionEligible   bool    `yaml:"extension_eligible"`
	ApprovalID          string  `yaml:"approval_id"`
	AllowedContactHours string  `yaml:"allowed_contact_hours"`
}

// Validate checks the profile carries enough to open a session
func (p *Profile) Validate() error {
	if p.CustomerID == "" {
		return types.NewError(types.PROFILE_INVALID, "profile customer_id cannot be empty")
	}
	if p.DebtAmount < 0 {
		return types.NewError(types.PROFILE_INVALID,
			fmt.Sprintf("profile %q debt_amount cannot be negative", p.CustomerID))
	}
	return nil
}

// profileFile is the on-disk shape of a profile seed file.
type profileFile struct {
	Profiles []Profile `yaml:"profiles"`
}

// LoadProfiles reads a YAML seed file of customer profiles. The CLI uses
// it to boot realistic sessions without a backing system of record.
func LoadProfiles(path string) ([]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, types.WrapError(types.PROFILE_LOAD_FAILED,
			fmt.Sprintf("failed to read profile seed file %s", path), err)
	}

	var f profileFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, types.WrapError(types.PROFILE_PARSE_FAILED,
			fmt.Sprintf("failed to parse profile seed file %s", path), err)
	}

	if len(f.Profiles) == 0 {
		return nil, types.NewError(types.PROFILE_INVALID,
			fmt.Sprintf("profile seed file %s contains no profiles", path))
	}

	for i := range f.Profiles {
		if err := f.Profiles[i].Validate(); err != nil {
			return nil, err
		}
	}

	return f.Profiles, nil
}

// FindProfile returns the profile with the given customer id
func FindProfile(profiles []Profile, customerID string) (Profile, error) {
	for _, p := range profiles {
		if p.CustomerID == customerID {
			return p, nil
		}
	}
	return Profile{}, types.NewError(types.PROFILE_INVALID,
		fmt.Sprintf("no profile for customer %q", customerID))
}
