// Package questionbank carries the reference question catalog shipped with the service.
package questionbank

import "quiz-platform/internal/domain"

func q(subject string, d domain.Difficulty, prompt string, a, b, c, dd, answer, explanation string) domain.Question {
	return domain.Question{
		Subject:     subject,
		Difficulty:  d,
		Prompt:      prompt,
		Options:     [4]string{a, b, c, dd},
		Answer:      answer,
		Explanation: explanation,
	}
}

// Seed returns the reference catalog with sequential IDs starting at 1.
func Seed() []domain.Question {
	questions := []domain.Question{
		q("Math", domain.Easy, "What is 5 + 3?", "6", "7", "8", "9", "c", "Simple addition: 5 + 3 = 8"),
		q("Math", domain.Easy, "What is 10 - 4?", "5", "6", "7", "8", "b", "Simple subtraction: 10 - 4 = 6"),
		q("Math", domain.Easy, "What is 2 × 4?", "6", "8", "10", "12", "b", "Multiplication: 2 × 4 = 8"),
		q("Math", domain.Medium, "What is 12 × 5?", "50", "55", "60", "65", "c", "12 × 5 = 60"),
		q("Math", domain.Medium, "What is 144 ÷ 12?", "10", "11", "12", "13", "c", "144 divided by 12 equals 12"),
		q("Math", domain.Medium, "What is 15% of 200?", "20", "25", "30", "35", "c", "15% of 200 = 0.15 × 200 = 30"),
		q("Math", domain.Hard, "What is √81?", "7", "8", "9", "10", "c", "The square root of 81 is 9"),
		q("Math", domain.Hard, "What is 2³ + 3²?", "13", "15", "17", "19", "c", "2³ = 8, 3² = 9, so 8 + 9 = 17"),
		q("Science", domain.Easy, "What planet is closest to the Sun?", "Venus", "Mercury", "Mars", "Earth", "b", "Mercury is the closest planet to the Sun"),
		q("Science", domain.Easy, "What is H2O?", "Oxygen", "Hydrogen", "Water", "Carbon", "c", "H2O is the chemical formula for water"),
		q("Science", domain.Easy, "How many legs does a spider have?", "6", "8", "10", "12", "b", "Spiders are arachnids with 8 legs"),
		q("Science", domain.Medium, "What is the powerhouse of the cell?", "Nucleus", "Mitochondria", "Ribosome", "Chloroplast", "b", "Mitochondria produce energy (ATP) for the cell"),
		q("Science", domain.Medium, "What is the speed of light?", "300,000 km/s", "150,000 km/s", "450,000 km/s", "600,000 km/s", "a", "Light travels at approximately 300,000 km/s in a vacuum"),
		q("Science", domain.Medium, "What gas do plants absorb?", "Oxygen", "Nitrogen", "CO2", "Hydrogen", "c", "Plants absorb carbon dioxide (CO2) during photosynthesis"),
		q("Science", domain.Hard, "What is the atomic number of Carbon?", "4", "6", "8", "12", "b", "Carbon has 6 protons, giving it atomic number 6"),
		q("Science", domain.Hard, "What is absolute zero in Celsius?", "-273.15°C", "-100°C", "0°C", "-200°C", "a", "Absolute zero is -273.15°C or 0 Kelvin"),
		q("History", domain.Easy, "Who was the first President of USA?", "Jefferson", "Washington", "Lincoln", "Adams", "b", "George Washington was the first US President (1789-1797)"),
		q("History", domain.Easy, "What country is home to the pyramids?", "Greece", "Egypt", "Mexico", "India", "b", "The famous pyramids are in Egypt"),
		q("History", domain.Medium, "In what year did World War II end?", "1943", "1944", "1945", "1946", "c", "World War II ended in 1945"),
		q("History", domain.Medium, "Who wrote Romeo and Juliet?", "Dickens", "Shakespeare", "Austen", "Twain", "b", "William Shakespeare wrote Romeo and Juliet"),
		q("History", domain.Hard, "What ancient wonder was in Alexandria?", "Colossus", "Lighthouse", "Pyramids", "Gardens", "b", "The Lighthouse of Alexandria was one of the Seven Wonders"),
		q("History", domain.Hard, "When did the Berlin Wall fall?", "1987", "1989", "1991", "1993", "b", "The Berlin Wall fell on November 9, 1989"),
	}
	for i := range questions {
		questions[i].ID = int64(i + 1)
	}
	return questions
}

// Subjects returns the distinct subjects in catalog order.
func Subjects(questions []domain.Question) []string {
	seen := make(map[string]bool)
	var out []string
	for _, q := range questions {
		if !seen[q.Subject] {
			seen[q.Subject] = true
			out = append(out, q.Subject)
		}
	}
	return out
}
