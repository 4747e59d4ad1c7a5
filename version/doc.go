// Package version exposes build metadata for the esdsl binary.
//
// Set the values with ldflags:
//
//	go build -ldflags "\
//	  -X github.com/ncobase/esdsl/version.Version=1.2.3 \
//	  -X github.com/ncobase/esdsl/version.Branch=main \
//	  -X github.com/ncobase/esdsl/version.Revision=abc1234 \
//	  -X 'github.com/ncobase/esdsl/version.BuiltAt=$(date -u +%FT%TZ)'" ./cmd/esdsl
//
// Values left unset are filled from the module build info when the binary
// was built from a VCS checkout.
package version
