// Package codec turns plaintext into authenticated ciphertext addressed to
// one counterpart, and back.
//
// Text uses pair-authenticated public-key encryption (NaCl box): the
// ciphertext binds the (sender, recipient) keypair, so the decrypting side
// must select the correct counterpart public key — the recipient's key when
// reading your own messages, the sender's key otherwise.
//
// Files use envelope encryption: the payload is sealed under a one-time
// symmetric key (NaCl secretbox), and that key travels boxed to the
// counterpart like any text message. This keeps the asymmetric primitive's
// envelope small regardless of payload size.
package codec
