// Package certgen issues the certificates FileKeeper needs: a self-signed
// CA, CA-signed leaf certificates for clients and servers, and standalone
// self-signed leaves. All keys are ECDSA P-256; signing and encoding are
// delegated to crypto/x509 and encoding/pem.
package certgen

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"fmt"
	"math/big"
	"net"
	"os"
	"time"
)

// ErrNoPrivateKey is returned when a signing operation is requested from
// Credentials that were loaded without their private key.
var ErrNoPrivateKey = errors.New("certgen: CA credentials carry no private key")

const (
	caValidity   = 10 * 365 * 24 * time.Hour
	leafValidity = 365 * 24 * time.Hour
)

// Credentials bundles a certificate with its private key. Key may be nil
// when the credentials were loaded from a certificate file alone.
type Credentials struct {
	Cert *x509.Certificate
	Key  any
}

// CertPEM returns the PEM encoding of the certificate.
func (c *Credentials) CertPEM() []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: c.Cert.Raw})
}

// KeyPEM returns the PEM encoding of the private key, or an error if the
// credentials hold no key or the key type is not supported.
func (c *Credentials) KeyPEM() ([]byte, error) {
	if c.Key == nil {
		return nil, ErrNoPrivateKey
	}
	key, ok := c.Key.(*ecdsa.PrivateKey)
	if !ok {
		return nil, fmt.Errorf("unsupported key type: %T", c.Key)
	}
	der, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return nil, fmt.Errorf("marshal priv key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: der}), nil
}

// certOptions describes one certificate for the builder.
type certOptions struct {
	commonName string
	altNames   []string
	isCA       bool
	isClient   bool
	// issuer signs the certificate; nil means self-signed.
	issuer *Credentials
}

// createX509Certificate generates a fresh P-256 key and builds a signed
// certificate from opts. With a nil issuer the certificate signs itself.
func createX509Certificate(opts certOptions) (*Credentials, error) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("gen key: %w", err)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 62))
	if err != nil {
		return nil, fmt.Errorf("gen serial: %w", err)
	}

	validity := leafValidity
	if opts.isCA {
		validity = caValidity
	}

	template := &x509.Certificate{
		SerialNumber: serial,
		Subject: pkix.Name{
			CommonName: opts.commonName,
		},
		NotBefore:             time.Now().Add(-1 * time.Minute),
		NotAfter:              time.Now().Add(validity),
		BasicConstraintsValid: true,
	}

	switch {
	case opts.isCA:
		template.IsCA = true
		template.KeyUsage = x509.KeyUsageCertSign | x509.KeyUsageDigitalSignature
	case opts.isClient:
		template.KeyUsage = x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment
		template.ExtKeyUsage = []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth}
	default:
		template.KeyUsage = x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment
		template.ExtKeyUsage = []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth}
	}

	for _, alt := range opts.altNames {
		if ip := net.ParseIP(alt); ip != nil {
			template.IPAddresses = append(template.IPAddresses, ip)
		} else {
			template.DNSNames = append(template.DNSNames, alt)
		}
	}

	parent := template
	signingKey := any(priv)
	if opts.issuer != nil {
		if opts.issuer.Key == nil {
			return nil, ErrNoPrivateKey
		}
		parent = opts.issuer.Cert
		signingKey = opts.issuer.Key
	}

	der, err := x509.CreateCertificate(rand.Reader, template, parent, &priv.PublicKey, signingKey)
	if err != nil {
		return nil, fmt.Errorf("create cert: %w", err)
	}
	cert, err := x509.ParseCertificate(der)
	if err != nil {
		return nil, fmt.Errorf("parse cert: %w", err)
	}

	return &Credentials{Cert: cert, Key: priv}, nil
}

// CreateCA creates a self-signed certificate authority.
func CreateCA(commonName string) (*Credentials, error) {
	return createX509Certificate(certOptions{
		commonName: commonName,
		isCA:       true,
	})
}

// CreateSignedCertificate issues a leaf certificate signed by ca. With
// client set the leaf carries the client-auth EKU, otherwise server-auth.
// Returns ErrNoPrivateKey if ca holds no signing key.
func CreateSignedCertificate(commonName string, altNames []string, client bool, ca *Credentials) (*Credentials, error) {
	return createX509Certificate(certOptions{
		commonName: commonName,
		altNames:   altNames,
		isClient:   client,
		issuer:     ca,
	})
}

// CreateSelfSignedServerCert issues a self-signed server leaf certificate.
func CreateSelfSignedServerCert(commonName string, altNames []string) (*Credentials, error) {
	return createX509Certificate(certOptions{
		commonName: commonName,
		altNames:   altNames,
	})
}

// CreateSelfSignedClientCert issues a self-signed client leaf certificate.
func CreateSelfSignedClientCert(commonName string) (*Credentials, error) {
	return createX509Certificate(certOptions{
		commonName: commonName,
		isClient:   true,
	})
}

// LoadCACredentials loads a CA certificate and its private key from PEM
// files. EC and RSA keys are accepted for loading even though generation
// is always ECDSA.
func LoadCACredentials(certPath, keyPath string) (*Credentials, error) {
	certPEM, err := os.ReadFile(certPath)
	if err != nil {
		return nil, fmt.Errorf("read ca cert: %w", err)
	}
	keyPEM, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, fmt.Errorf("read ca key: %w", err)
	}

	certBlock, _ := pem.Decode(certPEM)
	if certBlock == nil || certBlock.Type != "CERTIFICATE" {
		return nil, errors.New("invalid CA cert PEM")
	}
	caCert, err := x509.ParseCertificate(certBlock.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse ca cert: %w", err)
	}

	keyBlock, _ := pem.Decode(keyPEM)
	if keyBlock == nil {
		return nil, errors.New("invalid CA key PEM")
	}
	var caKey any
	switch keyBlock.Type {
	case "EC PRIVATE KEY":
		caKey, err = x509.ParseECPrivateKey(keyBlock.Bytes)
	case "RSA PRIVATE KEY":
		caKey, err = x509.ParsePKCS1PrivateKey(keyBlock.Bytes)
	default:
		return nil, fmt.Errorf("unsupported key type: %s", keyBlock.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("parse ca key: %w", err)
	}

	return &Credentials{Cert: caCert, Key: caKey}, nil
}

// WriteCredentials writes the certificate and key PEM files. The key file
// is created with mode 0600.
func WriteCredentials(c *Credentials, certPath, keyPath string) error {
	keyPEM, err := c.KeyPEM()
	if err != nil {
		return err
	}
	if err := os.WriteFile(certPath, c.CertPEM(), 0644); err != nil {
		return fmt.Errorf("write cert: %w", err)
	}
	if err := os.WriteFile(keyPath, keyPEM, 0600); err != nil {
		return fmt.Errorf("write key: %w", err)
	}
	return nil
}
