package bubblegum

import (
	"encoding/json"
	"fmt"

	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/pubkey"
)

type TokenStandard uint8

const (
	TokenStandardNonFungible TokenStandard = iota
	TokenStandardFungibleAsset
	TokenStandardFungible
	TokenStandardNonFungibleEdition
)

var tokenStandardNames = []string{"NonFungible", "FungibleAsset", "Fungible", "NonFungibleEdition"}

func (s TokenStandard) String() string {
	return enumName(tokenStandardNames, uint8(s))
}

func (s TokenStandard) MarshalText() ([]byte, error) {
	return marshalEnum("token standard", tokenStandardNames, uint8(s))
}

func (s *TokenStandard) UnmarshalText(text []byte) error {
	value, err := unmarshalEnum("token standard", tokenStandardNames, text)
	*s = TokenStandard(value)
	return err
}

type UseMethod uint8

const (
	UseMethodBurn UseMethod = iota
	UseMethodMultiple
	UseMethodSingle
)

var useMethodNames = []string{"Burn", "Multiple", "Single"}

func (m UseMethod) String() string {
	return enumName(useMethodNames, uint8(m))
}

func (m UseMethod) MarshalText() ([]byte, error) {
	return marshalEnum("use method", useMethodNames, uint8(m))
}

func (m *UseMethod) UnmarshalText(text []byte) error {
	value, err := unmarshalEnum("use method", useMethodNames, text)
	*m = UseMethod(value)
	return err
}

type TokenProgramVersion uint8

const (
	TokenProgramVersionOriginal TokenProgramVersion = iota
	TokenProgramVersionToken2022
)

var tokenProgramVersionNames = []string{"Original", "Token2022"}

func (v TokenProgramVersion) String() string {
	return enumName(tokenProgramVersionNames, uint8(v))
}

func (v TokenProgramVersion) MarshalText() ([]byte, error) {
	return marshalEnum("token program version", tokenProgramVersionNames, uint8(v))
}

func (v *TokenProgramVersion) UnmarshalText(text []byte) error {
	value, err := unmarshalEnum("token program version", tokenProgramVersionNames, text)
	*v = TokenProgramVersion(value)
	return err
}

// Creator is one entry of an asset's creator list. Verified creators must
// sign the asset before the batch can be built.
type Creator struct {
	Address  pubkey.Pubkey `json:"address"`
	Verified bool          `json:"verified"`
	Share    uint8         `json:"share"`
}

type Collection struct {
	Verified bool          `json:"verified"`
	Key      pubkey.Pubkey `json:"key"`
}

type Uses struct {
	UseMethod UseMethod `json:"use_method"`
	Remaining uint64    `json:"remaining"`
	Total     uint64    `json:"total"`
}

// MetadataArgs is the asset metadata hashed into the leaf data hash.
type MetadataArgs struct {
	Name                 string              `json:"name"`
	Symbol               string              `json:"symbol"`
	URI                  string              `json:"uri"`
	SellerFeeBasisPoints uint16              `json:"seller_fee_basis_points"`
	PrimarySaleHappened  bool                `json:"primary_sale_happened"`
	IsMutable            bool                `json:"is_mutable"`
	EditionNonce         *uint8              `json:"edition_nonce"`
	TokenStandard        *TokenStandard      `json:"token_standard"`
	Collection           *Collection         `json:"collection"`
	Uses                 *Uses               `json:"uses"`
	TokenProgramVersion  TokenProgramVersion `json:"token_program_version"`
	Creators             []Creator           `json:"creators"`
}

type metadataArgsJSON MetadataArgs

// MarshalJSON writes creators as an empty list rather than null.
func (m MetadataArgs) MarshalJSON() ([]byte, error) {
	out := metadataArgsJSON(m)
	if out.Creators == nil {
		out.Creators = []Creator{}
	}
	return json.Marshal(out)
}

// Clone returns a deep copy of the metadata.
func (m MetadataArgs) Clone() MetadataArgs {
	out := m
	if m.EditionNonce != nil {
		value := *m.EditionNonce
		out.EditionNonce = &value
	}
	if m.TokenStandard != nil {
		value := *m.TokenStandard
		out.TokenStandard = &value
	}
	if m.Collection != nil {
		value := *m.Collection
		out.Collection = &value
	}
	if m.Uses != nil {
		value := *m.Uses
		out.Uses = &value
	}
	if m.Creators != nil {
		out.Creators = append([]Creator(nil), m.Creators...)
	}
	return out
}

// Equal compares metadata by value. A nil creator list equals an empty one.
func (m MetadataArgs) Equal(other MetadataArgs) bool {
	if m.Name != other.Name ||
		m.Symbol != other.Symbol ||
		m.URI != other.URI ||
		m.SellerFeeBasisPoints != other.SellerFeeBasisPoints ||
		m.PrimarySaleHappened != other.PrimarySaleHappened ||
		m.IsMutable != other.IsMutable ||
		m.TokenProgramVersion != other.TokenProgramVersion {
		return false
	}
	if !equalOptional(m.EditionNonce, other.EditionNonce) ||
		!equalOptional(m.TokenStandard, other.TokenStandard) ||
		!equalOptional(m.Collection, other.Collection) ||
		!equalOptional(m.Uses, other.Uses) {
		return false
	}
	if len(m.Creators) != len(other.Creators) {
		return false
	}
	for index := range m.Creators {
		if m.Creators[index] != other.Creators[index] {
			return false
		}
	}
	return true
}

// FindCreator returns the creator with the given address.
func (m MetadataArgs) FindCreator(address pubkey.Pubkey) (Creator, bool) {
	for _, creator := range m.Creators {
		if creator.Address == address {
			return creator, true
		}
	}
	return Creator{}, false
}

func equalOptional[T comparable](left, right *T) bool {
	if left == nil || right == nil {
		return left == nil && right == nil
	}
	return *left == *right
}

func enumName(names []string, value uint8) string {
	if int(value) < len(names) {
		return names[value]
	}
	return fmt.Sprintf("Unknown(%d)", value)
}

func marshalEnum(kind string, names []string, value uint8) ([]byte, error) {
	if int(value) >= len(names) {
		return nil, fmt.Errorf("invalid %s %d", kind, value)
	}
	return []byte(names[value]), nil
}

func unmarshalEnum(kind string, names []string, text []byte) (uint8, error) {
	for index, name := range names {
		if name == string(text) {
			return uint8(index), nil
		}
	}
	return 0, fmt.Errorf("unknown %s %q", kind, string(text))
}
