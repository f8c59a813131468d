// Package assemble builds the final video with ffmpeg: a timed slideshow of
// associated images under the narration track, with burned-in subtitles.
package assemble
