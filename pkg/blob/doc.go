// Package blob provides the object storage behind uploaded documents.
//
// Three drivers implement Store:
//
//   - fs: files in the upload directory, with JSON sidecars under .meta
//   - s3: a single S3 or MinIO bucket via aws-sdk-go-v2
//   - memory: process memory, for tests
//
// Open selects a driver from Config.
package blob
