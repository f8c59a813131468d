// Package images matches illustration prompts to uploaded image files so
// the assembler can cut one image per narration bucket.
package images
