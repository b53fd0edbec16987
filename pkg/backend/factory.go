package backend

import (
	"fmt"
	"strings"
)

// Supported protocol-type identifiers, as accepted on the CLI via --type.
const (
	TypeDiscreteLog   = "discrete_log"
	TypeEllipticCurve = "elliptic_curve"
)

// Supported MODP parameter set names, accepted via --modp.
const (
	MODP1024160 = "rfc5114_modp_1024_160"
	MODP2048224 = "rfc5114_modp_2048_224"
	MODP2048256 = "rfc5114_modp_2048_256"
)

// Supported elliptic-curve backend names, accepted via --curve.
const (
	CurveEC25519 = "ec25519"
	CurvePallas  = "pallas"
	CurveVesta   = "vesta"
)

// FromFlags selects and constructs a Backend from the CLI surface shared
// by cmd/server and cmd/client: protocolType picks the group family
// (discrete_log or elliptic_curve), and modpName/curveName select within
// it. The irrelevant one of modpName/curveName for a given protocolType is
// ignored.
func FromFlags(protocolType, modpName, curveName string) (Backend, error) {
	switch strings.ToLower(protocolType) {
	case TypeDiscreteLog:
		return modpFromName(modpName)
	case TypeEllipticCurve:
		return curveFromName(curveName)
	default:
		return nil, fmt.Errorf("backend: unsupported protocol type %q", protocolType)
	}
}

func modpFromName(name string) (Backend, error) {
	switch strings.ToLower(name) {
	case MODP1024160:
		return NewRFC5114MODP1024160(), nil
	case MODP2048224:
		return NewRFC5114MODP2048224(), nil
	case MODP2048256, "":
		return NewRFC5114MODP2048256(), nil
	default:
		return nil, fmt.Errorf("backend: unsupported MODP parameter set %q", name)
	}
}

func curveFromName(name string) (Backend, error) {
	switch strings.ToLower(name) {
	case CurveEC25519, "":
		return NewRistretto(), nil
	case CurvePallas:
		return NewPallas(), nil
	case CurveVesta:
		return NewVesta(), nil
	default:
		return nil, fmt.Errorf("backend: unsupported curve %q", name)
	}
}

// SupportedTypes lists the --type values understood by FromFlags.
func SupportedTypes() []string {
	return []string{TypeDiscreteLog, TypeEllipticCurve}
}

// SupportedMODPNames lists the --modp values understood by FromFlags when
// protocolType is TypeDiscreteLog.
func SupportedMODPNames() []string {
	return []string{MODP1024160, MODP2048224, MODP2048256}
}

// SupportedCurves lists the --curve values understood by FromFlags when
// protocolType is TypeEllipticCurve.
func SupportedCurves() []string {
	return []string{CurveEC25519, CurvePallas, CurveVesta}
}
