package theorem

// standard is the table shipped with the service. Multipliers are the
// headline figure of each entry; Metric records what that figure was called.
var standard = []Entry{
	{
		ID:          1,
		Name:        "Shor Factorization Theorem",
		Multiplier:  0.25,
		Metric:      "savings multiplier",
		Formula:     "C_total = sum(C_fixed / n) + sum(C_variable * k)",
		Application: "Cost structure optimization",
		Description: "Cost structure decomposition into fixed and variable components",
	},
	{
		ID:          2,
		Name:        "Bell's Inequality Theorem",
		Multiplier:  0.15,
		Metric:      "efficiency gain",
		Formula:     "E(theta) = cos^2(theta/2) - sin^2(theta/2)",
		Application: "Team coordination optimization",
		Description: "Correlation optimization for team scheduling",
	},
	{
		ID:          3,
		Name:        "Euler's Totient Theorem",
		Multiplier:  0.18,
		Metric:      "optimization",
		Formula:     "a^phi(n) = 1 (mod n)",
		Application: "Resource distribution",
		Description: "Resource allocation and scheduling",
	},
	{
		ID:          4,
		Name:        "Bayesian Inference Theorem",
		Multiplier:  0.92,
		Metric:      "accuracy",
		Formula:     "P(A|B) = P(B|A)P(A)/P(B)",
		Application: "Call volume prediction",
		Description: "Predictive analytics for call volumes",
	},
	{
		ID:          5,
		Name:        "Markov Chain Theorem",
		Multiplier:  0.22,
		Metric:      "improvement",
		Formula:     "P(X_{t+1} = x | X_t) = P(x | X_t)",
		Application: "Workflow state optimization",
		Description: "Customer journey and workflow optimization",
	},
	{
		ID:          6,
		Name:        "Linear Programming Theorem",
		Multiplier:  0.20,
		Metric:      "savings",
		Formula:     "max c'x subject to Ax <= b, x >= 0",
		Application: "Staffing optimization",
		Description: "Resource allocation with constraints",
	},
	{
		ID:          7,
		Name:        "Nash Equilibrium Theorem",
		Multiplier:  0.85,
		Metric:      "equilibrium",
		Formula:     "u_i(s_i*, s_-i*) >= u_i(s_i, s_-i*) for all i",
		Application: "Agent strategy optimization",
		Description: "Multi-agent optimization in BPO",
	},
	{
		ID:          8,
		Name:        "Monte Carlo Theorem",
		Multiplier:  0.85,
		Metric:      "confidence interval lower bound",
		Formula:     "E[f(X)] ~ (1/N) sum f(x_i)",
		Application: "Staffing predictions",
		Description: "Statistical sampling for uncertainty",
	},
	{
		ID:          9,
		Name:        "Fourier Transform Theorem",
		Multiplier:  0.88,
		Metric:      "pattern accuracy",
		Formula:     "F(w) = integral f(t) e^{-iwt} dt",
		Application: "Pattern recognition",
		Description: "Time-series analysis of call patterns",
	},
	{
		ID:          10,
		Name:        "Pythagorean Theorem",
		Multiplier:  0.30,
		Metric:      "dimensional optimization",
		Formula:     "a^2 + b^2 = c^2",
		Application: "Efficiency measurement",
		Description: "Multi-dimensional optimization",
	},
	{
		ID:          11,
		Name:        "Central Limit Theorem",
		Multiplier:  0.95,
		Metric:      "control limit",
		Formula:     "sqrt(n)(mean_n - mu) -> N(0, sigma^2)",
		Application: "Quality assurance",
		Description: "Statistical quality control",
	},
	{
		ID:          12,
		Name:        "Taylor Expansion Theorem",
		Multiplier:  0.90,
		Metric:      "prediction accuracy",
		Formula:     "f(x) = sum f^(n)(a)/n! (x-a)^n",
		Application: "Performance forecasting",
		Description: "Performance approximation and prediction",
	},
	{
		ID:          13,
		Name:        "Optimization Performance Theorem",
		Multiplier:  0.37,
		Metric:      "total improvement",
		Formula:     "max sum w_i * f_i(x)",
		Application: "Overall BPO optimization",
		Description: "Overall system optimization",
	},
}
