package driver

const (
	GetSeasonQuery = `
		MATCH (s:Season {id: $season_id})
		RETURN s.id AS id, s.name AS name
	`

	GetCandidatesQuery = `
		MATCH (s:Season {id: $season_id})-[:HAS_CANDIDATE]->(c:Candidate)
		RETURN c.id AS id, c.name AS name, c.gender AS gender
		ORDER BY c.position
	`

	// Couples are stored as two parallel id lists on the night node.
	GetMatchingNightsQuery = `
		MATCH (s:Season {id: $season_id})-[:HAS_NIGHT]->(n:MatchingNight)
		RETURN n.id AS id, n.lights AS lights, n.men AS men, n.women AS women
		ORDER BY n.position
	`

	GetTruthBoothsQuery = `
		MATCH (s:Season {id: $season_id})-[:HAS_TRUTH_BOOTH]->(b:TruthBooth)
		RETURN b.id AS id, b.man AS man, b.woman AS woman, b.is_perfect_match AS is_perfect_match
		ORDER BY b.position
	`

	SaveSeasonQuery = `
		MERGE (s:Season {id: $season_id})
		SET s.name = $name
		RETURN s.id AS id
	`

	ClearSeasonEvidenceQuery = `
		MATCH (s:Season {id: $season_id})-[:HAS_CANDIDATE|HAS_NIGHT|HAS_TRUTH_BOOTH]->(x)
		DETACH DELETE x
	`

	SaveCandidatesQuery = `
		MATCH (s:Season {id: $season_id})
		UNWIND $candidates AS c
		CREATE (s)-[:HAS_CANDIDATE]->(:Candidate {id: c.id, name: c.name, gender: c.gender, position: c.position})
	`

	SaveMatchingNightsQuery = `
		MATCH (s:Season {id: $season_id})
		UNWIND $nights AS n
		CREATE (s)-[:HAS_NIGHT]->(:MatchingNight {id: n.id, lights: n.lights, men: n.men, women: n.women, position: n.position})
	`

	SaveTruthBoothsQuery = `
		MATCH (s:Season {id: $season_id})
		UNWIND $booths AS b
		CREATE (s)-[:HAS_TRUTH_BOOTH]->(:TruthBooth {id: b.id, man: b.man, woman: b.woman, is_perfect_match: b.is_perfect_match, position: b.position})
	`
)
