// Package redisblob stores opaque encrypted file blobs in Redis with a
// bounded TTL, matching the ephemeral nature of the chats that reference
// them. The service never sees plaintext: blobs arrive already encrypted
// under a one-time file key held by the participants.
package redisblob
