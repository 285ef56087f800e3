package catalog

// sampleSongs is used whenever no valid upload is available.
var sampleSongs = []Song{
	{Title: "Blissful Day", Artist: "Daylight Ensemble", Genre: "pop", Mood: 8, MBTITags: "ENFP,ESFP,INFP"},
	{Title: "Midnight City", Artist: "Synth Harbor", Genre: "electronic", Mood: 4, MBTITags: "INTJ,ISTP,INFP"},
	{Title: "Coffee & Rain", Artist: "Quiet Corner", Genre: "indie", Mood: 5, MBTITags: "INFJ,ISFJ,INTP"},
	{Title: "Drive Away", Artist: "Roadtone", Genre: "rock", Mood: 7, MBTITags: "ESTP,ENTP,ISTP"},
	{Title: "Warm Glow", Artist: "Amber Choir", Genre: "acoustic", Mood: 9, MBTITags: "ESFJ,ENFJ,ISFP"},
	{Title: "City Lights", Artist: "Nightshift", Genre: "r&b", Mood: 6, MBTITags: "ISFP,INFP,ESFP"},
	{Title: "Study Focus", Artist: "LoFi Library", Genre: "lofi", Mood: 3, MBTITags: "INTJ,ISTJ,INFP"},
	{Title: "Epic Horizon", Artist: "Orchestra Nova", Genre: "classical", Mood: 5, MBTITags: "INFJ,INTP,INTJ"},
	{Title: "Heartbeat", Artist: "Pulse", Genre: "pop", Mood: 8, MBTITags: "ENFP,ESFP,ENTP"},
	{Title: "Solitude", Artist: "Blue Room", Genre: "indie", Mood: 2, MBTITags: "INTP,INFP,ISFP"},
	{Title: "Adrenaline", Artist: "Fast Lane", Genre: "electronic", Mood: 9, MBTITags: "ESTP,ENTP,ESFP"},
	{Title: "Reflection", Artist: "Mirrorlake", Genre: "folk", Mood: 4, MBTITags: "INFJ,ISFJ,INFP"},
}

// Sample returns the built-in twelve song catalog.
func Sample() *Catalog {
	songs := make([]Song, len(sampleSongs))
	for i, s := range sampleSongs {
		s.Mood = ClampMood(s.Mood)
		s.MBTITags = normalizeTags(s.MBTITags)
		songs[i] = s
	}
	return newCatalog(SourceSample, true, songs)
}
