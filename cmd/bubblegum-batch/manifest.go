package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/batchmint"
	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/bubblegum"
	"github.com/metaplex-foundation/bubblegum-batch-sdk/pkg/pubkey"
)

// manifest describes a batch to build: the prepared tree it targets and the
// assets to mint into it, in nonce order.
type manifest struct {
	Tree          string              `yaml:"tree"`
	MaxDepth      uint32              `yaml:"max_depth"`
	MaxBufferSize uint32              `yaml:"max_buffer_size"`
	CanopyDepth   uint32              `yaml:"canopy_depth"`
	Collection    *manifestCollection `yaml:"collection"`
	Assets        []manifestAsset     `yaml:"assets"`
}

type manifestCollection struct {
	Mint               string `yaml:"mint"`
	Authority          string `yaml:"authority"`
	AuthorityRecordPDA string `yaml:"authority_record_pda"`
	Metadata           string `yaml:"metadata"`
	Edition            string `yaml:"edition"`
}

type manifestAsset struct {
	Owner                string            `yaml:"owner"`
	Delegate             string            `yaml:"delegate"`
	Name                 string            `yaml:"name"`
	Symbol               string            `yaml:"symbol"`
	URI                  string            `yaml:"uri"`
	SellerFeeBasisPoints uint16            `yaml:"seller_fee_basis_points"`
	PrimarySaleHappened  bool              `yaml:"primary_sale_happened"`
	IsMutable            bool              `yaml:"is_mutable"`
	EditionNonce         *uint8            `yaml:"edition_nonce"`
	TokenStandard        string            `yaml:"token_standard"`
	TokenProgramVersion  string            `yaml:"token_program_version"`
	Collection           *manifestRef      `yaml:"collection"`
	Uses                 *manifestUses     `yaml:"uses"`
	Creators             []manifestCreator `yaml:"creators"`
}

type manifestRef struct {
	Key      string `yaml:"key"`
	Verified bool   `yaml:"verified"`
}

type manifestUses struct {
	Method    string `yaml:"method"`
	Remaining uint64 `yaml:"remaining"`
	Total     uint64 `yaml:"total"`
}

type manifestCreator struct {
	Address  string `yaml:"address"`
	Verified bool   `yaml:"verified"`
	Share    uint8  `yaml:"share"`
}

func loadManifest(path string) (*manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	var parsed manifest
	if err := yaml.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode manifest: %w", err)
	}
	if strings.TrimSpace(parsed.Tree) == "" {
		return nil, fmt.Errorf("manifest tree is required")
	}
	return &parsed, nil
}

func (m *manifest) treeID() (pubkey.Pubkey, error) {
	return parseKey("tree", m.Tree)
}

func (m *manifest) collectionConfig() (*batchmint.CollectionConfig, error) {
	if m.Collection == nil {
		return nil, nil
	}
	return m.Collection.config()
}

func (c *manifestCollection) config() (*batchmint.CollectionConfig, error) {
	config := &batchmint.CollectionConfig{}
	var err error
	if config.CollectionMint, err = parseKey("collection mint", c.Mint); err != nil {
		return nil, err
	}
	if config.CollectionAuthority, err = parseOptionalKey("collection authority", c.Authority); err != nil {
		return nil, err
	}
	if config.CollectionMetadata, err = parseOptionalKey("collection metadata", c.Metadata); err != nil {
		return nil, err
	}
	if config.EditionAccount, err = parseOptionalKey("collection edition", c.Edition); err != nil {
		return nil, err
	}
	if c.AuthorityRecordPDA != "" {
		record, err := parseKey("collection authority record", c.AuthorityRecordPDA)
		if err != nil {
			return nil, err
		}
		config.CollectionAuthorityRecordPDA = &record
	}
	return config, nil
}

// resolve converts an asset entry into its owner, delegate and metadata. The
// delegate defaults to the owner.
func (a manifestAsset) resolve() (pubkey.Pubkey, pubkey.Pubkey, bubblegum.MetadataArgs, error) {
	var metadata bubblegum.MetadataArgs

	owner, err := parseKey("owner", a.Owner)
	if err != nil {
		return owner, owner, metadata, err
	}
	delegate := owner
	if a.Delegate != "" {
		if delegate, err = parseKey("delegate", a.Delegate); err != nil {
			return owner, delegate, metadata, err
		}
	}

	metadata = bubblegum.MetadataArgs{
		Name:                 a.Name,
		Symbol:               a.Symbol,
		URI:                  a.URI,
		SellerFeeBasisPoints: a.SellerFeeBasisPoints,
		PrimarySaleHappened:  a.PrimarySaleHappened,
		IsMutable:            a.IsMutable,
		EditionNonce:         a.EditionNonce,
	}
	if a.TokenStandard != "" {
		var standard bubblegum.TokenStandard
		if err := standard.UnmarshalText([]byte(a.TokenStandard)); err != nil {
			return owner, delegate, metadata, err
		}
		metadata.TokenStandard = &standard
	}
	if a.TokenProgramVersion != "" {
		if err := metadata.TokenProgramVersion.UnmarshalText([]byte(a.TokenProgramVersion)); err != nil {
			return owner, delegate, metadata, err
		}
	}
	if a.Collection != nil {
		key, err := parseKey("collection key", a.Collection.Key)
		if err != nil {
			return owner, delegate, metadata, err
		}
		metadata.Collection = &bubblegum.Collection{Verified: a.Collection.Verified, Key: key}
	}
	if a.Uses != nil {
		uses := &bubblegum.Uses{Remaining: a.Uses.Remaining, Total: a.Uses.Total}
		if err := uses.UseMethod.UnmarshalText([]byte(a.Uses.Method)); err != nil {
			return owner, delegate, metadata, err
		}
		metadata.Uses = uses
	}
	for _, creator := range a.Creators {
		address, err := parseKey("creator", creator.Address)
		if err != nil {
			return owner, delegate, metadata, err
		}
		metadata.Creators = append(metadata.Creators, bubblegum.Creator{
			Address:  address,
			Verified: creator.Verified,
			Share:    creator.Share,
		})
	}

	return owner, delegate, metadata, nil
}

func parseKey(field, value string) (pubkey.Pubkey, error) {
	key, err := pubkey.FromString(strings.TrimSpace(value))
	if err != nil {
		return pubkey.Pubkey{}, fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	return key, nil
}

func parseOptionalKey(field, value string) (pubkey.Pubkey, error) {
	if strings.TrimSpace(value) == "" {
		return pubkey.Pubkey{}, nil
	}
	return parseKey(field, value)
}
