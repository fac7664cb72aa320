package mandala

import (
	"path"
	"strings"
)

// The archive marks separators with two fixed rule images. The single
// thin rule separates groups, the double thick rule separates categories.
const (
	groupRuleSignature    = "sinario_line_1"
	categoryRuleSignature = "sinario_line_2"
)

// Classify maps a separator asset reference to its marker kind by exact
// match of the base filename (extension stripped) against the two known
// rule signatures. Anything else is MarkerUnknown, which is a
// data-quality signal rather than an error: segmentation proceeds
// without treating it as a boundary.
func Classify(assetRef string) MarkerKind {
	base := path.Base(assetRef)
	base = strings.TrimSuffix(base, path.Ext(base))
	switch base {
	case groupRuleSignature:
		return MarkerGroupBoundary
	case categoryRuleSignature:
		return MarkerCategoryBoundary
	}
	return MarkerUnknown
}

// IsSeparatorAsset reports whether an asset reference looks like one of
// the archive's separator rule images, known or not. The tokenizer uses
// this to decide which images become marker tokens at all.
func IsSeparatorAsset(assetRef string) bool {
	return strings.HasPrefix(path.Base(assetRef), "sinario_line")
}
