// Package main writes a development CA and a server certificate signed by it,
// ready to pass to the server as --tls-cert and --tls-key.
package main

import (
	"crypto"
	"crypto/x509"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/lostprophetsco/saasoft-tz/internal/certgen"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	flags := pflag.NewFlagSet("certgen", pflag.ContinueOnError)
	flags.SetOutput(out)
	dir := flags.String("dir", "certs", "output directory")
	hosts := flags.String("hosts", "localhost,127.0.0.1", "comma-separated server host names and IPs")
	caCertPath := flags.String("ca-cert", "", "existing CA certificate to sign with")
	caKeyPath := flags.String("ca-key", "", "existing CA private key to sign with")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if (*caCertPath == "") != (*caKeyPath == "") {
		return fmt.Errorf("--ca-cert and --ca-key must be given together")
	}

	if err := os.MkdirAll(*dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", *dir, err)
	}

	var (
		caCert *x509.Certificate
		caKey  crypto.Signer
		err    error
	)
	if *caCertPath != "" {
		caCert, caKey, err = certgen.LoadCACredentials(*caCertPath, *caKeyPath)
		if err != nil {
			return err
		}
	} else {
		cert, key, err := certgen.GenerateCA("Keeper Dev CA")
		if err != nil {
			return err
		}
		keyPEM, err := certgen.EncodeKey(key)
		if err != nil {
			return err
		}
		err = certgen.WritePair(filepath.Join(*dir, "ca.crt"), filepath.Join(*dir, "ca.key"), certgen.EncodeCert(cert.Raw), keyPEM)
		if err != nil {
			return err
		}
		caCert, caKey = cert, key
	}

	certPEM, keyPEM, err := certgen.GenerateServerCertificate(strings.Split(*hosts, ","), caCert, caKey)
	if err != nil {
		return err
	}
	if err := certgen.WritePair(filepath.Join(*dir, "server.crt"), filepath.Join(*dir, "server.key"), certPEM, keyPEM); err != nil {
		return err
	}

	fmt.Fprintf(out, "Certificates generated into %s\n", *dir)
	return nil
}
