// Package main bootstraps a Certificate Authority, server, and client
// certificates, writing them to files under the "certs" directory.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/amezhov/filekeeper/internal/certgen"
)

func main() {
	var (
		dir      string
		serverCN string
		clientCN string
	)
	flag.StringVar(&dir, "dir", "certs", "output directory")
	flag.StringVar(&serverCN, "server-cn", "localhost", "server certificate common name")
	flag.StringVar(&clientCN, "client-cn", "alice", "client certificate common name")
	flag.Parse()

	if err := generate(dir, serverCN, clientCN); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Certificates generated into ./%s\n", dir)
}

// generate writes ca, server and client cert/key pairs into dir.
func generate(dir, serverCN, clientCN string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	// 1. Generate CA certificate and key
	ca, err := certgen.CreateCA("FileKeeper CA")
	if err != nil {
		return fmt.Errorf("create CA: %w", err)
	}
	if err := certgen.WriteCredentials(ca, filepath.Join(dir, "ca.crt"), filepath.Join(dir, "ca.key")); err != nil {
		return err
	}

	// 2. Generate server certificate/key signed by CA
	server, err := certgen.CreateSignedCertificate(serverCN, []string{serverCN, "127.0.0.1"}, false, ca)
	if err != nil {
		return fmt.Errorf("create server cert: %w", err)
	}
	if err := certgen.WriteCredentials(server, filepath.Join(dir, "server.crt"), filepath.Join(dir, "server.key")); err != nil {
		return err
	}

	// 3. Generate client certificate/key signed by CA
	client, err := certgen.CreateSignedCertificate(clientCN, nil, true, ca)
	if err != nil {
		return fmt.Errorf("create client cert: %w", err)
	}
	return certgen.WriteCredentials(client, filepath.Join(dir, "client.crt"), filepath.Join(dir, "client.key"))
}
