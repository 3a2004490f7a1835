package dependency

import (
	"regexp"
	"sort"
	"strings"

	"github.com/tinovyatkin/earthscan/internal/versioning"
)

const variableMarker = "$"

var (
	// ${VAR:-image:tag} with an optionally quoted default.
	defaultValueRe = regexp.MustCompile(`^\$\{.+?:-"?(.*?)"?\}$`)
	quayRe         = regexp.MustCompile(`(?i)^quay\.io(?::[1-9][0-9]{0,4})?`)
)

// Prefixes that are part of the pull reference but not of the display name.
var specialPrefixes = []string{"amd64/", "arm64/", "library/"}

// FromImage builds a descriptor from a fully substituted image reference.
// registryAliases maps a registry prefix to its replacement; the longest
// matching prefix wins. DepType is left for the caller.
func FromImage(image string, registryAliases map[string]string) Descriptor {
	if strings.TrimSpace(image) == "" {
		return skipped(SkipInvalidValue, image)
	}

	if d, ok := applyAlias(image, registryAliases); ok {
		return d
	}

	d, ok := splitImage(image)
	if !ok {
		return d
	}
	d.Datasource = DockerDatasource
	if d.ReplaceString == "" {
		d.ReplaceString = image
	}
	d.AutoReplaceStringTemplate = depNameTemplate

	for _, rule := range normalizationRules {
		rule(&d)
	}

	switch {
	case d.DepName == "ubuntu":
		d.Versioning = versioning.Ubuntu
	case d.DepName == "debian" && versioning.IsDebianVersion(d.CurrentValue):
		d.Versioning = versioning.Debian
	}
	return d
}

func applyAlias(image string, registryAliases map[string]string) (Descriptor, bool) {
	prefixes := make([]string, 0, len(registryAliases))
	for prefix := range registryAliases {
		prefixes = append(prefixes, prefix)
	}
	sort.Slice(prefixes, func(i, j int) bool {
		if len(prefixes[i]) != len(prefixes[j]) {
			return len(prefixes[i]) > len(prefixes[j])
		}
		return prefixes[i] < prefixes[j]
	})

	for _, prefix := range prefixes {
		rest, ok := strings.CutPrefix(image, prefix+"/")
		if !ok || rest == "" {
			continue
		}
		d := FromImage(registryAliases[prefix]+"/"+rest, nil)
		if d.Skipped() {
			d.ReplaceString = image
			return d, true
		}
		d.ReplaceString = image
		d.AutoReplaceStringTemplate = ReplaceStringTemplate(d)
		return d, true
	}
	return Descriptor{}, false
}

// splitImage separates name, tag and digest. The bool is false when the
// returned descriptor is a skip.
func splitImage(image string) (Descriptor, bool) {
	var d Descriptor
	cleaned := image

	if strings.Contains(cleaned, variableMarker) {
		if m := defaultValueRe.FindStringSubmatch(cleaned); m != nil && m[1] != "" {
			cleaned = m[1]
			d.ReplaceString = cleaned
		}
		if strings.Contains(cleaned, variableMarker) {
			return skipped(SkipContainsVariable, image), false
		}
	}

	nameTag := cleaned
	if i := strings.LastIndexByte(cleaned, '@'); i >= 0 {
		nameTag, d.CurrentDigest = cleaned[:i], cleaned[i+1:]
	}

	d.DepName = nameTag
	if i := strings.LastIndexByte(nameTag, ':'); i >= 0 && !strings.Contains(nameTag[i+1:], "/") {
		d.DepName, d.CurrentValue = nameTag[:i], nameTag[i+1:]
	}
	return d, true
}

// normalizationRules run in order; each rewrites the display name when it
// applies and leaves the descriptor untouched otherwise.
var normalizationRules = []func(*Descriptor){
	unwrapSpecialPrefix,
	normalizeQuayHost,
}

func unwrapSpecialPrefix(d *Descriptor) {
	for _, prefix := range specialPrefixes {
		if name, ok := strings.CutPrefix(d.DepName, prefix); ok {
			d.PackageName = d.DepName
			d.DepName = name
			d.AutoReplaceStringTemplate = packageNameTemplate
			return
		}
	}
}

func normalizeQuayHost(d *Descriptor) {
	if !quayRe.MatchString(d.DepName) {
		return
	}
	name := quayRe.ReplaceAllString(d.DepName, "quay.io")
	if name == d.DepName {
		return
	}
	d.PackageName = d.DepName
	d.DepName = name
	d.AutoReplaceStringTemplate = packageNameTemplate
}
