package request

import (
	"github.com/holiman/uint256"

	"github.com/renproject/darknode-command-center/pkg/config"
	"github.com/renproject/darknode-command-center/pkg/darknode"
	"github.com/renproject/darknode-command-center/pkg/digest"
	"github.com/renproject/darknode-command-center/pkg/encoding"
	"github.com/renproject/darknode-command-center/pkg/pack"
	"github.com/renproject/darknode-command-center/pkg/signing"
)

// Field names of a claim-fees request.
const (
	FieldAsset     = "asset"
	FieldNode      = "node"
	FieldAmount    = "amount"
	FieldRecipient = "recipient"
	FieldNonce     = "nonce"
	FieldSignature = "signature"
)

// The node is carried as the 32 bytes behind its network ID.
var claimFeesFields = []pack.StructField{
	pack.Field(FieldAsset, pack.Str),
	pack.Field(FieldNode, pack.Bytes32),
	pack.Field(FieldAmount, pack.U256),
	pack.Field(FieldRecipient, pack.Str),
	pack.Field(FieldNonce, pack.U256),
}

// ClaimFeesType returns the type of unsigned claim-fees parameters.
func ClaimFeesType() pack.StructType {
	return pack.Struct(append([]pack.StructField(nil), claimFeesFields...)...)
}

// SignedClaimFeesType returns the type of a signed claim: the parameters
// followed by a 65-byte signature.
func SignedClaimFeesType() pack.StructType {
	fields := append([]pack.StructField(nil), claimFeesFields...)
	return pack.Struct(append(fields, pack.Field(FieldSignature, pack.Bytes65))...)
}

// ClaimFees asks RenVM to pay a darknode's accumulated fees in one asset
// to a recipient address on that asset's chain.
type ClaimFees struct {
	Asset     string       // Asset symbol, e.g. "BTC"
	Node      darknode.ID  // Darknode whose fees are claimed
	Amount    *uint256.Int // Amount in the asset's smallest unit
	Recipient string       // Address on the asset's chain
	Nonce     *uint256.Int // Distinguishes repeated claims (nil = 0)
}

// Validate checks that every required parameter is present.
func (c ClaimFees) Validate() error {
	if c.Asset == "" {
		return &InvalidRequestError{Field: FieldAsset, Message: "empty asset"}
	}
	if c.Node == (darknode.ID{}) {
		return &InvalidRequestError{Field: FieldNode, Message: "zero darknode ID"}
	}
	if c.Amount == nil || c.Amount.IsZero() {
		return &InvalidRequestError{Field: FieldAmount, Message: "amount must be positive"}
	}
	if c.Recipient == "" {
		return &InvalidRequestError{Field: FieldRecipient, Message: "empty recipient"}
	}
	return nil
}

// Value returns the parameters as a native Pack struct.
func (c ClaimFees) Value() pack.Object {
	nonce := c.Nonce
	if nonce == nil {
		nonce = new(uint256.Int)
	}

	node := make([]byte, darknode.NetworkIDBytes)
	copy(node, c.Node[:])

	return pack.Object{
		{Name: FieldAsset, Value: c.Asset},
		{Name: FieldNode, Value: node},
		{Name: FieldAmount, Value: c.Amount},
		{Name: FieldRecipient, Value: c.Recipient},
		{Name: FieldNonce, Value: nonce},
	}
}

// Digest returns the network-bound digest that the operator signs:
// Chained(network selector, params digest). See the package doc for the
// status of this scheme.
func (c ClaimFees) Digest(network config.Network) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}

	selector, err := network.Selector()
	if err != nil {
		return "", &InvalidRequestError{Field: "network", Message: "invalid selector", Cause: err}
	}

	paramsDigest, err := DigestWithCodec(network.Codec(), ClaimFeesType(), c.Value())
	if err != nil {
		return "", err
	}
	return digest.Chained(selector, paramsDigest)
}

// Sign signs the claim for network and returns it as a typed value of
// SignedClaimFeesType.
func (c ClaimFees) Sign(key *signing.PrivateKey, network config.Network) (pack.TypedValue, error) {
	d, err := c.Digest(network)
	if err != nil {
		return pack.TypedValue{}, err
	}

	sig, err := key.SignDigest(d)
	if err != nil {
		return pack.TypedValue{}, err
	}
	raw, err := encoding.DecodeBase64(sig)
	if err != nil {
		return pack.TypedValue{}, err
	}

	value := append(c.Value(), pack.Member{Name: FieldSignature, Value: raw})
	return network.Codec().NewTypedValue(SignedClaimFeesType(), value)
}

// VerifyClaimFees decodes a signed claim, recomputes its digest for
// network and returns the parameters together with the recovered signer.
func VerifyClaimFees(tv pack.TypedValue, network config.Network) (ClaimFees, darknode.ID, error) {
	native, err := network.Codec().Unmarshal(SignedClaimFeesType(), tv.Value)
	if err != nil {
		return ClaimFees{}, darknode.ID{}, err
	}
	obj := native.(pack.Object)

	claim, err := claimFeesFromObject(obj)
	if err != nil {
		return ClaimFees{}, darknode.ID{}, err
	}

	d, err := claim.Digest(network)
	if err != nil {
		return ClaimFees{}, darknode.ID{}, err
	}

	sig, _ := obj.Get(FieldSignature)
	signer, err := signing.RecoverSigner(d, encoding.ToURLBase64(sig.([]byte)))
	if err != nil {
		return ClaimFees{}, darknode.ID{}, err
	}
	return claim, signer, nil
}

func claimFeesFromObject(obj pack.Object) (ClaimFees, error) {
	var claim ClaimFees

	asset, _ := obj.Get(FieldAsset)
	claim.Asset = asset.(string)

	node, _ := obj.Get(FieldNode)
	nodeBytes := node.([]byte)
	id, err := darknode.ParseNetworkID(encoding.ToURLBase64(nodeBytes))
	if err != nil {
		return ClaimFees{}, &InvalidRequestError{Field: FieldNode, Message: "invalid darknode", Cause: err}
	}
	claim.Node = id

	amount, _ := obj.Get(FieldAmount)
	claim.Amount = amount.(*uint256.Int)

	recipient, _ := obj.Get(FieldRecipient)
	claim.Recipient = recipient.(string)

	nonce, _ := obj.Get(FieldNonce)
	claim.Nonce = nonce.(*uint256.Int)

	if err := claim.Validate(); err != nil {
		return ClaimFees{}, err
	}
	return claim, nil
}
