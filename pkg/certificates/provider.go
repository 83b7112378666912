package certificates

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"fmt"
	"math/big"
	"net"
	"time"
)

const keySize = 4096

type options struct {
	organization string
	unit         string
	hosts        []string
}

type Option func(*options)

func WithOrganization(organization, unit string) Option {
	return func(o *options) {
		o.organization = organization
		o.unit = unit
	}
}

// WithHosts sets the DNS names and IP addresses the certificate is valid for.
func WithHosts(hosts ...string) Option {
	return func(o *options) {
		o.hosts = hosts
	}
}

// GenerateSelfSignedCertificate returns a self-signed CA certificate valid
// until expire. By default it covers localhost and the loopback addresses.
func GenerateSelfSignedCertificate(expire time.Time, opts ...Option) (*x509.Certificate, *rsa.PrivateKey, error) {
	o := &options{
		organization: "Query Engine",
		unit:         "Records API",
		hosts:        []string{"localhost", "127.0.0.1", "::1"},
	}
	for _, opt := range opts {
		opt(o)
	}

	serial, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate serial number: %w", err)
	}

	csr := &x509.Certificate{
		SerialNumber: serial,
		Issuer: pkix.Name{
			Organization: []string{o.organization},
		},
		Subject: pkix.Name{
			Organization:       []string{o.organization},
			OrganizationalUnit: []string{o.unit},
		},
		NotBefore:             time.Now(),
		NotAfter:              expire,
		IsCA:                  true,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth, x509.ExtKeyUsageServerAuth},
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
	}
	for _, h := range o.hosts {
		if ip := net.ParseIP(h); ip != nil {
			csr.IPAddresses = append(csr.IPAddresses, ip)
			continue
		}
		csr.DNSNames = append(csr.DNSNames, h)
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, keySize)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate rsa private key: %w", err)
	}

	certData, err := x509.CreateCertificate(rand.Reader, csr, csr, privateKey.Public(), privateKey)
	if err != nil {
		return nil, nil, err
	}

	cert, err := x509.ParseCertificate(certData)
	if err != nil {
		return nil, nil, err
	}

	return cert, privateKey, nil
}
