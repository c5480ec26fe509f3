/*
Copyright SecureKey Technologies Inc. All Rights Reserved.
SPDX-License-Identifier: Apache-2.0
*/

package tls

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"path"
)

// GetCertPool returns a pool holding tlsCACerts, on top of the system pool when useSystemCertPool is set.
func GetCertPool(useSystemCertPool bool, tlsCACerts []string) (*x509.CertPool, error) {
	certPool := x509.NewCertPool()

	if useSystemCertPool {
		systemPool, err := x509.SystemCertPool()
		if err != nil {
			return nil, fmt.Errorf("failed to load system cert pool: %w", err)
		}

		certPool = systemPool
	}

	for _, v := range tlsCACerts {
		bytes, errRead := os.ReadFile(path.Clean(v))
		if errRead != nil {
			return nil, fmt.Errorf("failed to read cert: %w", errRead)
		}

		block, _ := pem.Decode(bytes)
		if block == nil {
			return nil, fmt.Errorf("failed to decode pem")
		}

		cert, errParse := x509.ParseCertificate(block.Bytes)
		if errParse != nil {
			return nil, fmt.Errorf("failed to parse cert: %w", errParse)
		}

		certPool.AddCert(cert)
	}

	return certPool, nil
}

// ClientConfig returns the TLS configuration for outbound connections to the registry and Redis.
func ClientConfig(useSystemCertPool bool, tlsCACerts []string) (*tls.Config, error) {
	rootCAs, err := GetCertPool(useSystemCertPool, tlsCACerts)
	if err != nil {
		return nil, err
	}

	return &tls.Config{RootCAs: rootCAs, MinVersion: tls.VersionTLS12}, nil
}
