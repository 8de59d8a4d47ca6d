// Package secure provides memory-safe storage for the Bitbucket app
// password. The credential is held encrypted at rest (memguard enclave) and
// only decrypted into a locked buffer for the duration of a single request.
package secure
